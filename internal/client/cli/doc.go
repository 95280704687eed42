// Package cli implements the interactive Biscotto storefront client.
//
// The REPL reads one command per line. Commands that need an argument take
// it from the line ("show <id>", "qty <id> <n>") or prompt for it.
package cli
