package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/covyhq/covy/internal/client/models"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetWithDefault is GetSimpleText that shows current and returns it when
// the user enters an empty line.
func GetWithDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	text, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if text == "" {
		return current, nil
	}
	return text, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
		if line == "" || err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetYesNo asks a yes/no question. Anything but "y" or "yes" is a no.
func GetYesNo(reader *bufio.Reader, question string, w io.Writer) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s [y/N] ", question); err != nil {
		return false, err
	}
	answer, err := readLine(reader)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GetFieldGroups collects entries of a repeatable profile section, one
// field per prompt. An empty first field ends the input.
func GetFieldGroups(reader *bufio.Reader, kind models.SectionKind, w io.Writer) ([]models.FieldGroup, error) {
	fields := models.SectionFields[kind]
	if _, err := fmt.Fprintf(w, "Enter %s entries (leave the first field empty to finish)\n", kind); err != nil {
		return nil, err
	}

	var groups []models.FieldGroup
	for n := 1; ; n++ {
		group := models.FieldGroup{}
		for i, field := range fields {
			value, err := GetSimpleText(reader, fmt.Sprintf("%s #%d %s", kind, n, fieldLabel(field)), w)
			if err != nil {
				return nil, err
			}
			if i == 0 && value == "" {
				return groups, nil
			}
			group[field] = value
		}
		groups = append(groups, group)
	}
}

// fieldLabel turns "experience_start_date" into "start date".
func fieldLabel(field string) string {
	_, rest, ok := strings.Cut(field, "_")
	if !ok {
		rest = field
	}
	return strings.ReplaceAll(rest, "_", " ")
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
