package main

import "testing"

func TestMainRunsCLI(t *testing.T) {
	orig := execute
	t.Cleanup(func() { execute = orig })

	var ran bool
	execute = func() { ran = true }

	main()

	if !ran {
		t.Fatal("main must delegate to the vapor CLI entry point")
	}
}
