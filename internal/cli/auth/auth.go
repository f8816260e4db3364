package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Register, login, and manage your Quest RPG session",
}

// Commands are added in their own files.

// prompt reads one line from the command's input.
func prompt(cmd *cobra.Command, r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input on a terminal and falls back to a plain line
// when stdin is piped.
func readPassword(cmd *cobra.Command, r *bufio.Reader, label string) (string, error) {
	fd := int(syscall.Stdin)
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(fd) {
		fmt.Fprint(cmd.OutOrStdout(), label)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		return string(pw), err
	}
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
