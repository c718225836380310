// Package errors provides structured error types for the serialization library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: class/property path, requested type name,
// Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
//		Path("User", "email").
//		TypeName("string").
//		GoType("[]interface {}").
//		Detail("expected a scalar").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingRequiredValue("User", "email")
//	err := errors.UnresolvableType(errors.PhaseResolve, nil, "Foo", "")
//
// Errors match the package sentinels by kind:
//
//	if errors.Is(err, serrors.ErrMissingRequiredValue) { ... }
package errors
