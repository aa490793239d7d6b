package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	cmecdriver "github.com/cmecmetrics/cmec-driver"
)

// PromptUser asks a yes/no question on the terminal, a single keypress
// suffices in raw mode. ENTER and Ctrl+C count as "no".
func PromptUser(allowEscapeSequences bool) cmecdriver.Confirm {
	return func(question string) bool {
		fmt.Fprintf(os.Stdout, "%s [y/N]: ", question)

		rawMode := false
		if allowEscapeSequences {
			if oldTermState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
				rawMode = true
				defer term.Restore(int(os.Stdin.Fd()), oldTermState)
			} //else ENTER is required to confirm input -> acceptable fallback
		}

		if !rawMode {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			return answer == "y" || answer == "yes"
		}

		reader := bufio.NewReaderSize(os.Stdin, 1)
		for {
			input, err := reader.ReadByte()
			if err != nil || input == 3 { //Ctrl+C
				fmt.Fprint(os.Stdout, "<CANCELLED>\r\n")
				return false
			}
			switch input {
			case 'y', 'Y':
				fmt.Fprint(os.Stdout, "Y\r\n")
				return true
			case 'n', 'N', '\r', '\n':
				fmt.Fprint(os.Stdout, "N\r\n")
				return false
			default:
				fmt.Fprint(os.Stdout, "\a") //bell
			}
		}
	}
}

// AutoDecline answers every question with the default "no", for use
// when stdin is not a terminal.
func AutoDecline(quiet bool) cmecdriver.Confirm {
	return func(question string) bool {
		if !quiet {
			fmt.Fprintf(os.Stdout, "%s => [N]\n", question)
		}
		return false
	}
}
