//go:build tools

// Package tools pins build-time tools so go.mod tracks them.
// mockgen generates the mocks/ package through the go:generate directives in contract/.
package chat_rooms

import (
	_ "go.uber.org/mock/mockgen"
)
