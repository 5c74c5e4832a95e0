package driven

import "context"

// SpeechRecognizer turns spoken input into text.
type SpeechRecognizer interface {
	// Listen blocks until an utterance is recognised or ctx ends.
	Listen(ctx context.Context) (string, error)
}

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
