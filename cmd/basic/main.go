// Command basic verifies a single address and prints the resulting
// verdict.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mailforge/verifymail"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: basic <address>")
		os.Exit(2)
	}

	v, err := verifymail.New(verifymail.ProbeOptions{
		HeloHost: "mail.myapp.com",
		MailFrom: "verify@myapp.com",
	})
	if err != nil {
		log.Fatal(err)
	}

	verdict, err := v.VerifyOne(context.Background(), os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %s (valid=%t)\n", verdict.Address, verdict.Category, verdict.IsValid)
	if verdict.Message != "" {
		fmt.Printf("  %s\n", verdict.Message)
	}
	if verdict.Details.TypoSuggestion != "" {
		fmt.Printf("  did you mean %s?\n", verdict.Details.TypoSuggestion)
	}
}
