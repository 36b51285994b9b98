package game

import "errors"

var (
	ErrRoomNotFound        = errors.New("room_not_found")
	ErrNotAuthorized       = errors.New("not_authorized")
	ErrPhaseMismatch       = errors.New("phase_mismatch")
	ErrInsufficientPlayers = errors.New("insufficient_players")
	ErrRateLimited         = errors.New("rate_limited")
	ErrInvalidTarget       = errors.New("invalid_target")
	ErrCapacityExceeded    = errors.New("capacity_exceeded")
	ErrInvalidText         = errors.New("invalid_text")
)

// UserMessage maps a command error to the short notice shown to the sender.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found. Ask the host for the invite code."
	case errors.Is(err, ErrNotAuthorized):
		return "You can't do that."
	case errors.Is(err, ErrPhaseMismatch):
		return "That action isn't available right now."
	case errors.Is(err, ErrInsufficientPlayers):
		return "Not enough players (need at least 3)."
	case errors.Is(err, ErrRateLimited):
		return "Too soon. Wait a moment and try again."
	case errors.Is(err, ErrInvalidTarget):
		return "Invalid target."
	case errors.Is(err, ErrCapacityExceeded):
		return "Room is full."
	case errors.Is(err, ErrInvalidText):
		return "Nothing to send."
	default:
		return "Something went wrong."
	}
}
