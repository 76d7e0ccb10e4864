//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var binaries = []string{"translingo", "translingo-web"}

// Default target to run when none is specified
var Default = Build

// Build compiles both binaries into the repository root
func Build() error {
	for _, name := range binaries {
		fmt.Printf("Building %s...\n", name)
		if err := sh.RunV("go", "build", "-o", name, "./cmd/"+name); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install copies the binaries to $GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	for _, name := range binaries {
		dst := filepath.Join(gopath, "bin", name)
		if err := sh.Copy(dst, name); err != nil {
			return err
		}
		if err := os.Chmod(dst, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes the built binaries
func Clean() error {
	for _, name := range binaries {
		if err := sh.Rm(name); err != nil {
			return err
		}
	}
	return nil
}
