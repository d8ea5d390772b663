//go:build js && wasm

// Command storefront-wasm is the browser entrypoint. It compiles to a wasm
// bundle that binds the storefront behaviour onto the page.
package main

import "github.com/macedon-ranges/storefront/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
