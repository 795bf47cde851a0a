package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeContainerNotFound = "E101"
	CodeContainerInvalid  = "E102"

	CodeMalformedMarkup  = "E110"
	CodeNoRootElement    = "E111"
	CodeUnknownComponent = "E112"
	CodeValueCount       = "E113"
	CodeSpreadNotMap     = "E114"
	CodeBadPlaceholder   = "E115"

	CodeHookOutsideRender = "E120"
	CodeHookOrder         = "E121"
	CodeOwnerDisposed     = "E122"

	CodeRenderLoop  = "E130"
	CodeRenderPanic = "E131"
	CodeNotMounted  = "E132"

	CodeInvalidConfig  = "E140"
	CodeConfigNotFound = "E141"
	CodeConfigParse    = "E142"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeContainerNotFound: {
		Category: CategoryMount,
		Message:  "Render container not found",
	},
	CodeContainerInvalid: {
		Category: CategoryMount,
		Message:  "Render container is not an element",
	},

	CodeMalformedMarkup: {
		Category: CategoryCompile,
		Message:  "Malformed markup",
	},
	CodeNoRootElement: {
		Category: CategoryCompile,
		Message:  "Template has no root element",
	},
	CodeUnknownComponent: {
		Category: CategoryCompile,
		Message:  "Unknown component",
	},
	CodeValueCount: {
		Category: CategoryCompile,
		Message:  "Template chunks and values do not line up",
	},
	CodeSpreadNotMap: {
		Category: CategoryCompile,
		Message:  "Spread value is not a map",
	},
	CodeBadPlaceholder: {
		Category: CategoryCompile,
		Message:  "Invalid template placeholder",
	},

	CodeHookOutsideRender: {
		Category: CategoryHook,
		Message:  "Hook called outside component render",
		Detail:   "hooks must be called from a component function while it renders",
	},
	CodeHookOrder: {
		Category: CategoryHook,
		Message:  "Hook order changed",
	},
	CodeOwnerDisposed: {
		Category: CategoryHook,
		Message:  "State setter called on an unmounted component",
	},

	CodeRenderLoop: {
		Category: CategoryRender,
		Message:  "Too many consecutive render passes",
	},
	CodeRenderPanic: {
		Category: CategoryRender,
		Message:  "Render pass panicked",
	},
	CodeNotMounted: {
		Category: CategoryRender,
		Message:  "No root component is mounted",
	},

	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Configuration file is not valid JSON",
	},
}

// Codes returns all registered error codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Template returns the template registered for code.
func Template(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
