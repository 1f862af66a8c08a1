package contract

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Classification label constants.
const (
	UtilValue    = "Util"     // Util value
	NonUtilValue = "Non-Util" // NonUtil value
)

// Color variables for console output.
var (
	UtilColor    = color.New(color.FgMagenta, color.Bold) // UtilColor highlights util/helper rows.
	NonUtilColor = color.New(color.FgCyan)                // NonUtilColor marks every other row.
	HeaderColor  = color.New(color.FgYellow, color.Bold)  // HeaderColor marks report section headers.
)

// GetPlainLabel returns the plain text label for a util classification.
func GetPlainLabel(isUtil bool) string {
	if isUtil {
		return UtilValue
	}
	return NonUtilValue
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(isUtil bool) string {
	if isUtil {
		return UtilColor.Sprint(UtilValue)
	}
	return NonUtilColor.Sprint(NonUtilValue)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ReadLines returns the lines of a file with trailing whitespace trimmed.
// Empty lines are dropped.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// WriteLines writes one entry per line to path, replacing its contents.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFirstLine returns the first line of a file, trimmed.
func ReadFirstLine(path string) (string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%s is empty", path)
	}
	return strings.TrimSpace(lines[0]), nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
