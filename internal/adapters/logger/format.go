package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer matches the Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of zerr errors. The first error that is not a zerr
// error ends the walk with its full message. Joined errors are flattened in order.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any
	current := err

	// zerr.With on a plain error wraps it with an empty message. Its metadata is carried
	// onto the next link that has a message.
	push := func(entry ErrorEntry) {
		if len(carried) > 0 {
			if entry.Metadata == nil {
				entry.Metadata = make(map[string]any, len(carried))
			}
			maps.Copy(entry.Metadata, carried)
			carried = nil
		}
		entries = append(entries, entry)
	}

	for current != nil {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(e)...)
			}
			break
		}

		m, ok := current.(messager)
		if !ok {
			push(ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		current = errors.Unwrap(current)

		if entry.Message == "" {
			if carried == nil {
				carried = make(map[string]any)
			}
			maps.Copy(carried, entry.Metadata)
			continue
		}
		push(entry)
	}

	return entries
}

// formatErrorEntries renders the chain as a headline followed by an indented cause list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			for _, kv := range sortedMetadata(entry.Metadata) {
				lines = append(lines, fmt.Sprintf("       %s: %v", kv.key, kv.value))
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		for _, kv := range sortedMetadata(entry.Metadata) {
			lines = append(lines, fmt.Sprintf("      %s: %v", kv.key, kv.value))
		}
	}

	return strings.Join(lines, "\n")
}

type keyValue struct {
	key   string
	value any
}

func sortedMetadata(md map[string]any) []keyValue {
	if len(md) == 0 {
		return nil
	}
	out := make([]keyValue, 0, len(md))
	for k, v := range md {
		out = append(out, keyValue{key: k, value: v})
	}
	slices.SortFunc(out, func(a, b keyValue) int {
		return strings.Compare(a.key, b.key)
	})
	return out
}
