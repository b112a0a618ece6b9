// Package storage defines the durable blob storage capability the image
// materializer writes through. The pipeline depends only on the Storage
// interface; whether bytes land on the local filesystem under a public web
// root or in a cloud bucket is an interchangeable backend choice.
package storage

import "context"

// Storage persists blobs and hands back stable, servable references.
type Storage interface {
	// EnsureNamespace prepares the namespace (directory or key prefix)
	// before any writes into it. Called once per record.
	EnsureNamespace(ctx context.Context, namespace string) error

	// Write persists data under namespace/filename and returns the public
	// reference the stored blob will be served from.
	Write(ctx context.Context, namespace, filename string, data []byte, contentType string) (string, error)
}
