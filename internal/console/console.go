// Package console is the menu-driven operator surface of the registrar.
// It reads answers line by line from an io.Reader and writes menus, results
// and error descriptions to an io.Writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

type handler func(ctx context.Context) error

// Console runs the registrar menus against the services
type Console struct {
	svc      *services.Services
	in       *bufio.Reader
	out      io.Writer
	timeout  time.Duration
	handlers map[Command]handler
	styles   styles
}

// Options tunes a Console
type Options struct {
	// Timeout bounds every service call; zero means no deadline
	Timeout time.Duration
}

// New creates a console reading answers from in and writing to out
func New(svc *services.Services, in io.Reader, out io.Writer, opts Options) *Console {
	c := &Console{
		svc:     svc,
		in:      bufio.NewReader(in),
		out:     out,
		timeout: opts.Timeout,
		styles:  newStyles(),
	}

	c.handlers = map[Command]handler{
		CommandAddMenu:    c.submenu(AddMenu),
		CommandListMenu:   c.submenu(ListMenu),
		CommandDeleteMenu: c.submenu(DeleteMenu),

		CommandAddDepartment:   c.addDepartment,
		CommandAddCourse:       c.addCourse,
		CommandAddSection:      c.addSection,
		CommandAddMajor:        c.addMajor,
		CommandAddStudent:      c.addStudent,
		CommandAddStudentMajor: c.addStudentMajor,
		CommandAddEnrollment:   c.addEnrollment,

		CommandListDepartments:   c.listDepartments,
		CommandListCourses:       c.listCourses,
		CommandListSections:      c.listSections,
		CommandListMajors:        c.listMajors,
		CommandListStudents:      c.listStudents,
		CommandListStudentMajors: c.listStudentMajors,
		CommandListEnrollments:   c.listEnrollments,

		CommandDeleteDepartment:   c.deleteDepartment,
		CommandDeleteCourse:       c.deleteCourse,
		CommandDeleteSection:      c.deleteSection,
		CommandDeleteMajor:        c.deleteMajor,
		CommandDeleteStudent:      c.deleteStudent,
		CommandDeleteStudentMajor: c.deleteStudentMajor,
		CommandDeleteEnrollment:   c.deleteEnrollment,
	}
	return c
}

// Run shows the main menu until the operator exits or input ends.
// Errors outside the application taxonomy end the session and are returned.
func (c *Console) Run(ctx context.Context) error {
	for {
		cmd, err := c.choose(MainMenu)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if cmd == CommandExit {
			return nil
		}

		if err := c.dispatch(ctx, cmd); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// submenu shows menu once and runs the chosen action
func (c *Console) submenu(menu Menu) handler {
	return func(ctx context.Context) error {
		cmd, err := c.choose(menu)
		if err != nil {
			return err
		}
		if cmd == CommandExit {
			return nil
		}
		return c.dispatch(ctx, cmd)
	}
}

// dispatch runs the handler of cmd. Taxonomy errors are reported to the
// operator and swallowed; anything else is returned.
func (c *Console) dispatch(ctx context.Context, cmd Command) error {
	h, ok := c.handlers[cmd]
	if !ok {
		return fmt.Errorf("console: no handler for command %d", cmd)
	}

	err := h(ctx)
	if err == nil {
		return nil
	}
	if apperrors.IsRecoverable(err) {
		logger.Warn().Err(err).Int("command", int(cmd)).Msg("Operation rejected")
		c.failure(apperrors.Describe(err))
		return nil
	}
	if !errors.Is(err, io.EOF) {
		logger.Error().Err(err).Int("command", int(cmd)).Msg("Operation failed")
	}
	return err
}

// choose prints menu and reads a valid option number
func (c *Console) choose(menu Menu) (Command, error) {
	for {
		c.println(c.styles.title.Render(menu.Title))
		for i, opt := range menu.Options {
			c.println(fmt.Sprintf("%s %s", c.styles.number.Render(fmt.Sprintf("%d -", i+1)), opt.Prompt))
		}

		line, err := c.readLine("--> ")
		if err != nil {
			return CommandExit, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(menu.Options) {
			c.failure(fmt.Sprintf("Please enter a number between 1 and %d.", len(menu.Options)))
			continue
		}
		return menu.Options[n-1].Command, nil
	}
}

// call bounds a service call by the configured timeout
func (c *Console) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return fn(ctx)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) success(s string) {
	c.println(c.styles.success.Render(s))
}

func (c *Console) failure(s string) {
	c.println(c.styles.failure.Render(s))
}

type styles struct {
	title   lipgloss.Style
	number  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	header  lipgloss.Style
	rule    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3")),
		number: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")),
		failure: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935")),
		header: lipgloss.NewStyle().
			Bold(true),
		rule: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6dae0")),
	}
}
