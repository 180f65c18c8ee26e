package models

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound           = status.Error(codes.NotFound, "not found")
	ErrConflict           = status.Error(codes.AlreadyExists, "already exists")
	ErrUnauthorized       = status.Error(codes.Unauthenticated, "authentication required")
	ErrForbidden          = status.Error(codes.PermissionDenied, "insufficient permissions")
	ErrInvalidCredentials = status.Error(codes.Unauthenticated, "invalid credentials")
	ErrTokenExpired       = status.Error(codes.Unauthenticated, "token expired")
	ErrInvalidToken       = status.Error(codes.PermissionDenied, "invalid token")
)

func NewValidationError(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

func NewNotFoundError(entity, id string) error {
	return status.Error(codes.NotFound, fmt.Sprintf("%s %s not found", entity, id))
}

func NewConflictError(format string, args ...any) error {
	return status.Errorf(codes.AlreadyExists, format, args...)
}
