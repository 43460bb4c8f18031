package mdomml

import "errors"

// Common errors used throughout the mdomml packages
var (
	// ErrEmptyFormula is returned when a formula source is empty after trimming the dollar delimiters.
	// Formula errors
	ErrEmptyFormula = errors.New("empty formula")
	// ErrUnconvertible indicates the transducer could not build any equation node for a formula.
	ErrUnconvertible = errors.New("formula could not be converted to an equation")

	// ErrEmptyContent indicates the Markdown content was empty.
	// Document errors
	ErrEmptyContent = errors.New("empty content")
	// ErrInputFileNotExist indicates the input Markdown file does not exist.
	ErrInputFileNotExist = errors.New("input file does not exist")
	// ErrNotMarkdownFile indicates the input file does not carry a Markdown extension.
	ErrNotMarkdownFile = errors.New("input file is not a Markdown file")

	// ErrConfigFileNotFound indicates a configuration file could not be located.
	// Configuration errors
	ErrConfigFileNotFound = errors.New("configuration file not found")
)
