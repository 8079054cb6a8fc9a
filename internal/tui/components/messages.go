package components

import "github.com/Veraticus/tradedash/internal/service"

// NavigateMsg asks the app router to show the view at Path.
type NavigateMsg struct {
	Path string
}

// TransactionsLoadedMsg carries the outcome of a transaction fetch.
type TransactionsLoadedMsg struct {
	Response *service.TransactionsResponse
	Err      error
}

// RetryRequestMsg is sent when the user asks to retry a failed fetch.
type RetryRequestMsg struct{}
