// Package extract turns accepted page markup into the audit fact
// groups: schema.org entities, media, structured content, metadata,
// and a publishing-platform fingerprint. Extraction is best-effort:
// malformed markup degrades to empty facts, never to an error.
package extract
