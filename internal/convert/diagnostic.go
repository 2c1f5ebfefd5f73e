package convert

import (
	"fmt"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/parser"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic rules.
const (
	RuleUnsupportedDefinition = "unsupported-definition"
	RuleUnsupportedMember     = "unsupported-member"
	RuleUnsupportedType       = "unsupported-type"
	RuleDuplicateEnumMember   = "duplicate-enum-member"
	RuleIterableMissingKey    = "iterable-missing-key"
)

const issueTracker = "https://github.com/emlang-project/webidl-dts-gen/issues"

// Diagnostic is a non-fatal problem found while lowering. The offending
// construct is left out of the output.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Node     string   `json:"node,omitempty"` // structured dump of the IDL node
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s (%s)", d.Line, d.Column, d.Severity, d.Message, d.Rule)
}

func (l *lowerer) addDiagnostic(rule, message string, n idl.Node) {
	d := Diagnostic{
		Rule:     rule,
		Message:  message,
		Severity: SeverityWarning,
	}
	if l.opts.Strict {
		d.Severity = SeverityError
	}
	if n != nil {
		b := n.NodeBase()
		d.Line, d.Column = b.Line, b.Column
		d.Node = parser.DumpString(n)
	}
	l.diagnostics = append(l.diagnostics, d)
}

// unsupported records a construct the converter has no rule for.
func (l *lowerer) unsupported(rule, what string, n idl.Node) {
	l.addDiagnostic(rule,
		fmt.Sprintf("%s is not supported and was skipped; please file an issue at %s with the IDL that produced it", what, issueTracker),
		n)
}
