package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/senolsoyleyici/poemsite/pkg"
)

// small helper for provisioning: prints the bcrypt hash of a password
func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Println("usage: hashgen -password <password>")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("hash password: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
