// Package history records which words were printed for which student.
package history
