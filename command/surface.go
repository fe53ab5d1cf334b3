package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
)

// ConflictError is returned by Surface.Add if a command is already registered.
type ConflictError struct {
	Kind  Kind
	Name  string
	Owner string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v command %q is already registered by %q", e.Kind, e.Name, e.Owner)
}

type key struct {
	kind Kind
	name string
}

type registered struct {
	cmd *Command
	cog string
}

// Surface is the set of commands registered by active cogs.
type Surface struct {
	mu    sync.RWMutex
	cmds  map[key]registered
	byCog map[string][]key

	caseInsensitive bool
}

// NewSurface returns an empty Surface.
// If caseInsensitive is set, text command names are matched regardless of case.
func NewSurface(caseInsensitive bool) *Surface {
	return &Surface{
		cmds:            make(map[key]registered),
		byCog:           make(map[string][]key),
		caseInsensitive: caseInsensitive,
	}
}

func (s *Surface) key(kind Kind, name string) key {
	if kind == Text && s.caseInsensitive {
		name = strings.ToLower(name)
	}
	return key{kind, name}
}

// Add registers cmds as belonging to cog.
// Either all commands are added, or none are: if any command is invalid or conflicts
// with an existing command, Add returns an error and the surface is unchanged.
func (s *Surface) Add(cog string, cmds ...*Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[key]struct{}, len(cmds))
	for _, cmd := range cmds {
		if err := cmd.validate(); err != nil {
			return err
		}

		k := s.key(cmd.Kind, cmd.Name)
		if r, ok := s.cmds[k]; ok {
			return &ConflictError{Kind: cmd.Kind, Name: cmd.Name, Owner: r.cog}
		}
		if _, ok := batch[k]; ok {
			return &ConflictError{Kind: cmd.Kind, Name: cmd.Name, Owner: cog}
		}
		batch[k] = struct{}{}
	}

	for _, cmd := range cmds {
		k := s.key(cmd.Kind, cmd.Name)
		s.cmds[k] = registered{cmd: cmd, cog: cog}
		s.byCog[cog] = append(s.byCog[cog], k)
	}
	return nil
}

// Remove unregisters all of cog's commands and returns their names.
func (s *Surface) Remove(cog string) (names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range s.byCog[cog] {
		names = append(names, s.cmds[k].cmd.Name)
		delete(s.cmds, k)
	}
	delete(s.byCog, cog)
	return names
}

func (s *Surface) get(kind Kind, name string) (*Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.cmds[s.key(kind, name)]
	return r.cmd, ok
}

// Text returns the text command with the given name.
func (s *Surface) Text(name string) (*Command, bool) {
	return s.get(Text, name)
}

// Slash returns the slash command with the given name.
func (s *Surface) Slash(name string) (*Command, bool) {
	return s.get(Slash, name)
}

// Component returns the component handler for a custom ID.
// The handler is looked up by the part of the ID before the first colon.
func (s *Surface) Component(customID string) (*Command, bool) {
	name, _, _ := strings.Cut(customID, ":")
	return s.get(Component, name)
}

// Owner returns the cog that registered a command.
func (s *Surface) Owner(kind Kind, name string) (cog string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.cmds[s.key(kind, name)]
	return r.cog, ok
}

// Commands returns cog's commands, in registration order.
func (s *Surface) Commands(cog string) []*Command {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cmds := make([]*Command, 0, len(s.byCog[cog]))
	for _, k := range s.byCog[cog] {
		cmds = append(cmds, s.cmds[k].cmd)
	}
	return cmds
}

// Len returns the number of registered commands of all kinds.
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cmds)
}

// CreateData returns all slash commands, sorted by name, for syncing with Discord.
func (s *Surface) CreateData() []api.CreateCommandData {
	s.mu.RLock()
	data := make([]api.CreateCommandData, 0)
	for k, r := range s.cmds {
		if k.kind == Slash {
			data = append(data, r.cmd.CreateData())
		}
	}
	s.mu.RUnlock()

	sort.Slice(data, func(i, j int) bool {
		return data[i].Name < data[j].Name
	})
	return data
}

// IsConflict returns true if err is a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
