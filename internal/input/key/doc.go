// Package key defines key codes and modifier classes for shortcut
// registration and dispatch.
//
// Key codes follow the numeric virtual-key convention (65 for A, 112 for
// F1) so registrations written against raw codes and registrations written
// against names in configuration files resolve to the same value.
//
// Modifiers are normalized into a coarse Class: none, ctrl, or alt. The
// platform "meta" modifier (Command on macOS, Win elsewhere) folds onto
// ctrl so one registration behaves identically across platforms. Names
// that match no known modifier canonicalize to ClassUnrecognized, which
// behaves as ClassNone everywhere but stays distinguishable to callers.
package key
