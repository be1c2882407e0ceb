// internal/lobby/errors.go
package lobby

import "errors"

// Expected outcomes of lobby operations. These are results, not faults: the
// transport matches on them with errors.Is and maps each to its own
// user-facing message.
var (
	// ErrLobbyNotFound indicates no lobby exists for the given ID.
	ErrLobbyNotFound = errors.New("lobby not found")

	// ErrSlotNotFound indicates the slot token is not part of the lobby.
	ErrSlotNotFound = errors.New("lobby slot not found")

	// ErrLobbyExpired indicates the lobby is past its expiry instant.
	ErrLobbyExpired = errors.New("lobby expired")

	// ErrPermissionDenied indicates a private lobby rejected an identity
	// outside the known-users allow-list.
	ErrPermissionDenied = errors.New("not allowed to join this lobby")

	// ErrAlreadyJoined indicates the identity is already a member. Callers
	// should treat this as a no-op success, not a hard failure.
	ErrAlreadyJoined = errors.New("already joined")

	// ErrLobbyFull indicates the lobby is at capacity.
	ErrLobbyFull = errors.New("lobby is full")

	// ErrInvalidCapacity indicates a create request whose capacity cannot
	// hold the creator plus the initial invitees.
	ErrInvalidCapacity = errors.New("invalid lobby capacity")

	// ErrInvalidInput indicates a malformed create request.
	ErrInvalidInput = errors.New("invalid lobby request")
)

// Infrastructure failures. The engine retries internally where it can; these
// surface only once its bounds are exhausted.
var (
	// ErrContention indicates concurrent writers invalidated every
	// conditional update attempt within the retry budget.
	ErrContention = errors.New("lobby under contention")

	// ErrStoreUnavailable indicates persistence failed or timed out.
	ErrStoreUnavailable = errors.New("lobby store unavailable")
)
