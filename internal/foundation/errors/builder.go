package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with the default error severity.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
	}}
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithContext adds a logging field.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// Fatal marks the error as stopping the whole run.
func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }

// UserFixable marks the error as fixable by editing site files.
func (b *ErrorBuilder) UserFixable() *ErrorBuilder {
	b.err.userFixable = true
	return b
}

// Build returns the error. The builder may not be reused.
func (b *ErrorBuilder) Build() *ClassifiedError {
	err := b.err
	if err.context == nil {
		err.context = ErrorContext{}
	}
	return &err
}

// ConfigError reports a missing, unparsable or invalid site configuration.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserFixable()
}

// ValidationError reports invalid caller input.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserFixable()
}

// I18nError reports a locale that cannot be resolved or unreadable translations.
func I18nError(message string) *ErrorBuilder {
	return NewError(CategoryI18n, message).Fatal().UserFixable()
}

// DuplicateRouteError reports route collisions under the error policy.
func DuplicateRouteError(message string) *ErrorBuilder {
	return NewError(CategoryDuplicateRoute, message).UserFixable()
}

// PluginLifecycleError reports a failed plugin lifecycle step. The cause is opaque.
func PluginLifecycleError(message string) *ErrorBuilder {
	return NewError(CategoryPlugin, message)
}

// CodegenError reports a failure writing generated files.
func CodegenError(message string) *ErrorBuilder {
	return NewError(CategoryCodegen, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
