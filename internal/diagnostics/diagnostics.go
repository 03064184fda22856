// Package diagnostics derives per-entity warnings from a document. The
// checks are pull-based: callers ask for the current findings whenever
// they render, nothing is cached or pushed.
package diagnostics

import (
	"fmt"

	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// Severity grades a finding.
type Severity int

const (
	// SeverityInfo marks observations that need no action.
	SeverityInfo Severity = iota

	// SeverityWarning marks findings the user should resolve.
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Warning is one finding about one entity. A Kind/Name pair of
// ("", "") scopes the finding to the document itself.
type Warning struct {
	Severity Severity
	Kind     kubeconfig.Kind
	Name     string
	Message  string
}

// credentialKeys are the user fields any one of which counts as a
// configured credential.
var credentialKeys = []string{
	"token",
	"client-certificate-data",
	"client-certificate",
	"client-key-data",
	"client-key",
	"username",
	"password",
	"exec",
	"auth-provider",
	"tokenFile",
}

// ForDocument runs every check and returns findings in a stable order:
// document-level first, then contexts, clusters, and users in collection
// order.
func ForDocument(doc *kubeconfig.Document) []Warning {
	var warnings []Warning

	if doc.CurrentContext != "" && doc.FindByName(kubeconfig.KindContext, doc.CurrentContext) == nil {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("current-context %q does not name any context", doc.CurrentContext),
		})
	}

	for _, ctx := range doc.Contexts {
		for _, msg := range contextFindings(doc, ctx) {
			warnings = append(warnings, Warning{
				Severity: SeverityWarning,
				Kind:     kubeconfig.KindContext,
				Name:     ctx.Name,
				Message:  msg,
			})
		}
	}
	for _, cluster := range doc.Clusters {
		warnings = append(warnings, clusterFindings(doc, cluster)...)
	}
	for _, user := range doc.Users {
		warnings = append(warnings, userFindings(doc, user)...)
	}
	return warnings
}

// ForEntity returns the finding messages for a single entity, used to
// annotate detail views.
func ForEntity(doc *kubeconfig.Document, kind kubeconfig.Kind, name string) []string {
	var messages []string
	for _, w := range ForDocument(doc) {
		if w.Kind == kind && w.Name == name {
			messages = append(messages, w.Message)
		}
	}
	return messages
}

func contextFindings(doc *kubeconfig.Document, ctx *kubeconfig.Entity) []string {
	var msgs []string
	for _, ref := range []struct {
		field string
		kind  kubeconfig.Kind
	}{
		{kubeconfig.FieldCluster, kubeconfig.KindCluster},
		{kubeconfig.FieldUser, kubeconfig.KindUser},
	} {
		name := ctx.FieldValue(ref.field)
		switch {
		case name == "":
			msgs = append(msgs, fmt.Sprintf("no %s reference set", ref.kind))
		case doc.FindByName(ref.kind, name) == nil:
			msgs = append(msgs, fmt.Sprintf("references missing %s %q", ref.kind, name))
		}
	}
	return msgs
}

func clusterFindings(doc *kubeconfig.Document, cluster *kubeconfig.Entity) []Warning {
	var warnings []Warning
	if cluster.FieldValue(kubeconfig.FieldServer) == "" {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Kind:     kubeconfig.KindCluster,
			Name:     cluster.Name,
			Message:  "no server address set",
		})
	}
	if len(doc.ContextsUsingCluster(cluster.Name)) == 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityInfo,
			Kind:     kubeconfig.KindCluster,
			Name:     cluster.Name,
			Message:  "not referenced by any context",
		})
	}
	return warnings
}

func userFindings(doc *kubeconfig.Document, user *kubeconfig.Entity) []Warning {
	var warnings []Warning
	if !hasCredential(user) {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Kind:     kubeconfig.KindUser,
			Name:     user.Name,
			Message:  "no credentials configured",
		})
	}
	if len(doc.ContextsUsingUser(user.Name)) == 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityInfo,
			Kind:     kubeconfig.KindUser,
			Name:     user.Name,
			Message:  "not referenced by any context",
		})
	}
	return warnings
}

func hasCredential(user *kubeconfig.Entity) bool {
	for _, key := range credentialKeys {
		if user.FieldValue(key) != "" {
			return true
		}
	}
	return false
}
