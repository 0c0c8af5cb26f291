// Package textquery reads the non-JSON bodies typefetch meets in practice:
// YAML documents are converted to JSON samples, and HTML or XML bodies are
// summarized so that fetch errors say what the endpoint returned instead.
package textquery
