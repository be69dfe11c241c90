// Package report renders analyses for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text tables for terminal display
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid pie chart
//   - JSONWriter: structured JSON for tool integration
//   - HTMLWriter: a standalone HTML page
//
// Writers implement the Writer interface, so they can be used
// interchangeably. New picks one by Format and WriteAll renders a batch.
package report
