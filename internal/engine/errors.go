package engine

import "errors"

var (
	// ErrADBUnavailable indicates the adb binary could not be run.
	ErrADBUnavailable = errors.New("adb unavailable")

	// ErrNoDevice indicates adb works but no device is attached.
	ErrNoDevice = errors.New("no device attached")

	// ErrNoUsers indicates the device reported no user profiles.
	ErrNoUsers = errors.New("no user profiles found")

	// ErrUserNotFound indicates a requested user ID does not exist on the
	// device.
	ErrUserNotFound = errors.New("user not found")

	// ErrMainUserProtected indicates the plan would hide packages from the
	// device owner profile without explicit permission.
	ErrMainUserProtected = errors.New("main user protected")
)
