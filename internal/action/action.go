// Package action implements the commands a skin attaches to buttons, keys,
// events and options. Commands are built by a Factory from
// "commandlist_add" lines and grouped into CommandLists.
package action

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTargetNotAllowed is returned when an action that takes no target
	// element is given one.
	ErrTargetNotAllowed = errors.New("<element> is not allowed")
	// ErrTargetRequired is returned when an action needs a target element.
	ErrTargetRequired = errors.New("<element> is required")
	// ErrZeroDistance is returned for scroll actions with distance 0.
	ErrZeroDistance = errors.New("invalid zero scroll distance")
	// ErrUnknownAction is returned for an unknown action keyword.
	ErrUnknownAction = errors.New("unknown action")
)

// Env is what commands act on at execution time.
type Env interface {
	OpenDialog(name string)
	CloseDialog(name string)
	IsDialogOpen(name string) bool
	SendCommand(command string) error
	Login(account, password string) error
	Option(name string) bool
	// SetOption records an option value and runs the option's command list.
	SetOption(name string, on bool) error
	Quit()
}

// Command is one executable action.
type Command interface {
	CanExecute(env Env) bool
	Execute(env Env) error
	String() string
}

// ListType controls how a CommandList executes its commands.
type ListType int

const (
	// And executes the list only if every command can execute.
	And ListType = iota
	// NoAnd executes every command that can execute.
	NoAnd
)

func (t ListType) String() string {
	if t == NoAnd {
		return "NO_AND"
	}
	return "AND"
}

// ParseListType parses AND or NO_AND.
func ParseListType(s string) (ListType, error) {
	switch strings.ToUpper(s) {
	case "AND":
		return And, nil
	case "NO_AND":
		return NoAnd, nil
	}
	return And, fmt.Errorf("invalid command list type '%s' (valid: AND, NO_AND)", s)
}

// CommandList is a named, ordered list of commands.
type CommandList struct {
	Name     string
	Type     ListType
	commands []Command
}

// NewCommandList returns an empty list.
func NewCommandList(name string, t ListType) *CommandList {
	return &CommandList{Name: name, Type: t}
}

// Add appends c.
func (l *CommandList) Add(c Command) {
	l.commands = append(l.commands, c)
}

// Commands returns the commands in insertion order.
func (l *CommandList) Commands() []Command {
	return l.commands
}

// CanExecute reports whether Execute would run anything.
func (l *CommandList) CanExecute(env Env) bool {
	if l.Type == NoAnd {
		for _, c := range l.commands {
			if c.CanExecute(env) {
				return true
			}
		}
		return false
	}
	for _, c := range l.commands {
		if !c.CanExecute(env) {
			return false
		}
	}
	return true
}

// Execute runs the list. An AND list runs all commands or none; a NO_AND
// list runs each command that can execute. The first error stops execution.
func (l *CommandList) Execute(env Env) error {
	if l.Type == And && !l.CanExecute(env) {
		return nil
	}
	for _, c := range l.commands {
		if l.Type == NoAnd && !c.CanExecute(env) {
			continue
		}
		if err := c.Execute(env); err != nil {
			return fmt.Errorf("command list '%s': %s: %w", l.Name, c, err)
		}
	}
	return nil
}
