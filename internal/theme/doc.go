// Package theme loads CSS themes for the translation popup. Bundled themes
// are embedded; a file named <theme>.css in the user's themes directory
// overrides the bundled theme of the same name and is reloaded on change.
package theme
