// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poster resolves stored poster references into viewable URLs.

A movie's poster field holds a "reference": either a raw object key
("posters/1700000000000-dune.jpg") or a full URL. URLs pointing at the
configured bucket are reduced to their key; anything else is external and is
never signed or deleted.

Lifecycle:

  - Read: references are signed into short-lived GET URLs. Failures fall back
    to the stored reference.
  - Replace: the previous object is deleted in the background once a new
    poster is stored under a different key.
  - Delete: the object is removed after its record is deleted.
*/
package poster

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// UploadPrefix is the key prefix for every uploaded poster.
const UploadPrefix = "posters/"

// Bucket identifies where poster objects live.
type Bucket struct {
	Name   string
	Region string

	// Endpoint is the custom S3-compatible endpoint (MinIO, R2), as a host or URL.
	// URLs on this host are accepted as path-style references.
	Endpoint string
}

// # Reference Parsing

/*
ExtractKey reduces a poster reference to the object key inside bucket.

Description: References without an http(s) scheme are treated as keys already
and are percent-decoded once (left unchanged if decoding fails). URLs are
accepted only when they address the bucket, virtual-hosted
("{bucket}.s3.{region}.amazonaws.com/key") or path-style
("s3.{region}.amazonaws.com/{bucket}/key", or the configured endpoint).
The remaining path is percent-decoded exactly once.

Returns:
  - string: The object key
  - bool: false for empty, foreign, or keyless references
*/
func ExtractKey(reference string, bucket Bucket) (string, bool) {
	if reference == "" {
		return "", false
	}

	// 1. Raw key
	if !hasHTTPScheme(reference) {
		decoded, err := url.PathUnescape(reference)
		if err != nil {
			return reference, true
		}
		return decoded, true
	}

	// 2. URL: must address our bucket
	parsed, err := url.Parse(reference)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	escapedPath := parsed.EscapedPath()
	bucketName := strings.ToLower(bucket.Name)
	if bucketName == "" {
		return "", false
	}

	isVirtualHosted := strings.HasPrefix(host, bucketName+".s3.")
	isPathStyle := isPathStyleHost(host, bucket) && strings.HasPrefix(escapedPath, "/"+bucketName+"/")

	if !isVirtualHosted && !isPathStyle {
		return "", false
	}

	// 3. Strip the bucket addressing
	key := strings.TrimPrefix(escapedPath, "/")
	if isPathStyle {
		key = strings.TrimPrefix(key, bucketName+"/")
	}
	if key == "" {
		return "", false
	}

	// 4. Decode exactly once so the signer receives the real key
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func hasHTTPScheme(reference string) bool {
	lower := strings.ToLower(reference)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isPathStyleHost(host string, bucket Bucket) bool {
	switch {
	case host == "s3.amazonaws.com":
		return true
	case bucket.Region != "" && host == "s3."+strings.ToLower(bucket.Region)+".amazonaws.com":
		return true
	case strings.HasPrefix(host, "s3."):
		return true
	}

	endpoint := EndpointHost(bucket.Endpoint)
	return endpoint != "" && host == endpoint
}

// EndpointHost returns the lowercased host name of an endpoint given as
// "host", "host:port" or a full URL. It returns "" for an empty endpoint.
func EndpointHost(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// # Upload Keys

/*
NewUploadKey builds the object key for an uploaded poster.

The key is "posters/{unixMillis}-{name}" where name is the base name of the
client-supplied filename in NFC form with control characters removed.
Percent signs become underscores: raw keys are decoded once by [ExtractKey],
and an upload key must come back from it unchanged.
*/
func NewUploadKey(filename string, now time.Time) string {
	return fmt.Sprintf("%s%d-%s", UploadPrefix, now.UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	// Browsers on Windows may send the full client path
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))

	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case r == '%':
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == "/" || name == ".." {
		return "poster"
	}
	return name
}
