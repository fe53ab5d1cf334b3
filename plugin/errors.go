package plugin

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a cog can't be resolved, or isn't active when it has to be.
type NotFoundError struct {
	Name   string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cog %q not found", e.Name)
	}
	return fmt.Sprintf("cog %q not found: %v", e.Name, e.Reason)
}

// AlreadyActiveError is returned by Load if the cog is already loaded.
type AlreadyActiveError struct {
	Name string
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("cog %q is already loaded", e.Name)
}

// InitError wraps an error returned while initializing a cog.
type InitError struct {
	Name string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing cog %q: %v", e.Name, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ResyncError wraps an error returned while syncing the command tree with Discord.
// The lifecycle operation that triggered the sync has still taken effect.
type ResyncError struct {
	Err error
}

func (e *ResyncError) Error() string {
	return fmt.Sprintf("syncing commands: %v", e.Err)
}

func (e *ResyncError) Unwrap() error {
	return e.Err
}

// Failure is a single cog's failure in a bulk operation.
type Failure struct {
	Name string
	Err  error
}

// Report is the result of a bulk operation such as ReloadAll.
type Report struct {
	Succeeded []string
	Failed    []Failure
	// Resync is set if the final command sync failed.
	Resync error
}

// OK returns true if nothing failed.
func (r Report) OK() bool {
	return len(r.Failed) == 0 && r.Resync == nil
}

// Err returns an error describing every failure, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return reportError(r)
}

type reportError Report

func (e reportError) Error() string {
	msgs := make([]string, 0, len(e.Failed)+1)
	for _, f := range e.Failed {
		msgs = append(msgs, f.Err.Error())
	}
	if e.Resync != nil {
		msgs = append(msgs, e.Resync.Error())
	}
	return strings.Join(msgs, "; ")
}
