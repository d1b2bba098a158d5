// Package id generates the prefixed unique identifiers used across the
// platform. The prefix names the entity class, so an ID alone is enough to
// tell what table it points into:
//
//	usr-  users            art-  articles         tag-  tags
//	cmt-  comments         view- anonymous views  shr-  shares
//	ntf-  notifications    job-  job postings     app-  job applications
//	ebk-  ebooks           pur-  ebook purchases  sse-  stream clients
//	token- password reset tokens
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID, e.g. "art-V1StGXR8_Z5jdHi6B-myT".
// The random part is a default NanoID: 21 characters of a URL-safe alphabet,
// denser than a UUID at two thirds the length.
//
// Returns an error only when the system entropy source fails.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is Generate for contexts where entropy failure should crash,
// such as seeding and test fixtures.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
