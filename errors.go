package inkwell

import "errors"

var (
	// ErrClosed is returned by operations on a closed Canvas.
	ErrClosed = errors.New("inkwell: canvas closed")
	// ErrUnknownCommand is returned by ExecuteCommand for a name no enabled
	// tool offers.
	ErrUnknownCommand = errors.New("inkwell: unknown command")
	// ErrCommandDisabled is returned by ExecuteCommand when CanExecute is false.
	ErrCommandDisabled = errors.New("inkwell: command disabled")
	// ErrPromptBusy is returned when a PromptDrop prompt meets an outstanding one.
	ErrPromptBusy = errors.New("inkwell: prompt already outstanding")
	// ErrNoPrompter is returned when a tool prompts but the host gave no Prompter.
	ErrNoPrompter = errors.New("inkwell: no prompter configured")
	// ErrPromptCancelled may be returned by a Prompter when the user dismisses it.
	ErrPromptCancelled = errors.New("inkwell: prompt cancelled")
	// ErrInputFull is returned by Send when the input buffer is full.
	ErrInputFull = errors.New("inkwell: input buffer full")
	// ErrNoDocument is returned by operations that need a document when none is set.
	ErrNoDocument = errors.New("inkwell: no document")
)
