// Package display shows the translation popup: a GTK4 layer-shell window
// placed at the pointer with the source text on the left and the
// translation on the right.
package display
