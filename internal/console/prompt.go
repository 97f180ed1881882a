package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/helpers"
)

// readLine prints prompt and returns the next input line without its line ending.
// A final line without a newline is still returned; io.EOF means no input was left.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readText reads a line trimmed of surrounding spaces
func (c *Console) readText(prompt string) (string, error) {
	line, err := c.readLine(prompt)
	return strings.TrimSpace(line), err
}

// readInt reads a whole number, asking again until one is given
func (c *Console) readInt(prompt string) (int, error) {
	for {
		line, err := c.readText(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.failure("Please enter a whole number.")
	}
}

// readEnum reads one of the values of the named enum, listing them in the prompt
func (c *Console) readEnum(label, enum string) (string, error) {
	values := models.EnumValues[enum]
	prompt := fmt.Sprintf("Enter %s (%s): ", label, strings.Join(values, ", "))
	for {
		line, err := c.readText(prompt)
		if err != nil {
			return "", err
		}
		if models.IsEnumValue(enum, line) {
			return line, nil
		}
		c.failure(fmt.Sprintf("Invalid %s. Allowed values are: %s", label, strings.Join(values, ", ")))
	}
}

// readDate reads an MM-DD-YYYY date, asking again until it parses
func (c *Console) readDate(prompt string) (string, error) {
	for {
		line, err := c.readText(prompt)
		if err != nil {
			return "", err
		}
		if _, err := helpers.ParseDate(line); err == nil {
			return line, nil
		}
		c.failure("Please enter the date as MM-DD-YYYY.")
	}
}

// readChoice reads one of the given answers, case-insensitively
func (c *Console) readChoice(prompt string, answers ...string) (string, error) {
	for {
		line, err := c.readText(prompt)
		if err != nil {
			return "", err
		}
		for _, a := range answers {
			if strings.EqualFold(line, a) {
				return a, nil
			}
		}
		c.failure(fmt.Sprintf("Please enter one of: %s", strings.Join(answers, ", ")))
	}
}
