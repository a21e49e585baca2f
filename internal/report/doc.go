// Package report renders audit reports in JSON and Markdown.
package report
