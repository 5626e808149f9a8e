package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var yesRegex = regexp.MustCompile(`^(?i)y(es)?$`)

// askYesNo asks a yes/no question on w and reads one answer line from r.
// Anything but y/yes counts as no.
func askYesNo(r io.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s y(es)/n(o) ", message)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	return yesRegex.MatchString(strings.TrimSpace(scanner.Text()))
}
