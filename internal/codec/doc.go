// Package codec converts between serialized kubeconfig YAML and the
// in-memory document model.
//
// The model stores every field value as a string; this package owns the
// lossless round-trip rules: nested mappings and sequences travel as
// canonical JSON text, and a small allowlist of boolean-semantic keys is
// always serialized as native YAML booleans because downstream consumers
// reject numeric stand-ins.
//
// Entity visibility is persisted through a head-comment annotation of the
// form "# kce:export=false" immediately preceding a sequence item. Absence
// of the annotation means visible. Unrecognized top-level keys are carried
// through load and save verbatim.
package codec
