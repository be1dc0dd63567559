/*
DESCRIPTION
  secrets.go provides reading and writing of secrets, tokens and templates
  held either in local files or in Google Storage Bucket objects.

LICENSE
  Copyright (C) 2024-2026 the Australian Ocean Lab (AusOcean)

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  It is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

// Package gauth provides access to credentials and other small objects that
// may live either on the local filesystem or in Google Storage.
package gauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/ausocean/utils/filemap"
)

// The URL scheme that represents a Google Storage Bucket.
const gsbScheme = "gs://"

// ErrNotExist is returned by ReadURI when the file or object does not exist.
var ErrNotExist = errors.New("does not exist")

// IsBucketURI reports whether uri refers to a Google Storage Bucket object.
func IsBucketURI(uri string) bool { return strings.HasPrefix(uri, gsbScheme) }

// GetSecrets looks up secrets from either a file or Google Storage
// bucket specified by the <PROJECTID>_SECRETS environment variable.
// Each line is a colon-separated key and value.
// The keys argument specifies required keys.
func GetSecrets(ctx context.Context, projectID string, keys []string) (map[string]string, error) {
	ev := strings.ToUpper(projectID) + "_SECRETS"
	uri := os.Getenv(ev)
	if uri == "" {
		return nil, errors.New(ev + " environment variable not defined")
	}

	b, err := ReadURI(ctx, uri)
	if err != nil {
		return nil, err
	}

	// Strip carriage returns, if any.
	s := strings.ReplaceAll(string(b), "\r", "")

	// There is one colon-separated secret per line.
	m := filemap.Split(s, "\n", ":")
	for _, k := range keys {
		if m[k] == "" {
			return m, fmt.Errorf("missing key %s", k)
		}
	}
	return m, nil
}

// ReadURI returns the contents of the local file or Google Storage Bucket
// object named by uri. Bucket URIs take the form gs://<bucket>/<object>.
// A missing file or object yields an error wrapping ErrNotExist.
func ReadURI(ctx context.Context, uri string) ([]byte, error) {
	if !IsBucketURI(uri) {
		b, err := os.ReadFile(uri)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", uri, ErrNotExist)
		}
		if err != nil {
			return nil, fmt.Errorf("could not read file %s: %w", uri, err)
		}
		return b, nil
	}

	obj, err := bucketObject(ctx, uri)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("object %s: %w", uri, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot create GSB reader: %w", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return b, fmt.Errorf("cannot read GSB: %w", err)
	}
	return b, nil
}

// WriteURI writes data to the local file or Google Storage Bucket object
// named by uri, replacing any previous contents. Local files are created
// with the given permissions.
func WriteURI(ctx context.Context, uri string, data []byte, perm os.FileMode) error {
	if !IsBucketURI(uri) {
		err := os.WriteFile(uri, data, perm)
		if err != nil {
			return fmt.Errorf("could not write file %s: %w", uri, err)
		}
		return nil
	}

	obj, err := bucketObject(ctx, uri)
	if err != nil {
		return err
	}
	w := obj.NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("could not write object %s: %w", uri, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("could not close written object: %w", err)
	}
	return nil
}

// Exists reports whether the file or bucket object named by uri exists.
func Exists(ctx context.Context, uri string) (bool, error) {
	if !IsBucketURI(uri) {
		_, err := os.Stat(uri)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}

	obj, err := bucketObject(ctx, uri)
	if err != nil {
		return false, err
	}
	_, err = obj.Attrs(ctx)
	switch {
	case errors.Is(err, storage.ErrObjectNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("could not get attributes of %s: %w", uri, err)
	}
	return true, nil
}

// bucketObject returns a handle to the bucket object named by uri.
func bucketObject(ctx context.Context, uri string) (*storage.ObjectHandle, error) {
	bkt, name, err := bucketAddr(uri)
	if err != nil {
		return nil, err
	}
	clt, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot create GSB client: %w", err)
	}
	return clt.Bucket(bkt).Object(name), nil
}

// bucketAddr splits a gs://<bucket>/<object> URI into its bucket and object
// names.
func bucketAddr(uri string) (bucket, object string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid GSB URL %s: %w", uri, err)
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "gs" || u.Host == "" || object == "" {
		return "", "", fmt.Errorf("invalid GSB URL %s", uri)
	}
	return u.Host, object, nil
}
