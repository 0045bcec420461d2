// Where: internal/backup/uploader.go
// What: Upload a rendered deployment tree to the backup bucket.
// Why: Rendered configs plus .env are the whole lab state worth keeping.
package backup

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/substratelab/labops/internal/ui"
)

// Uploader pushes files into an S3-compatible bucket.
type Uploader struct {
	Client S3API
	Now    func() time.Time
}

// Upload ensures the bucket exists and stores every file under rootDir at
// <labName>/<timestamp>/<relative path>. Returns the object count.
func (u Uploader) Upload(ctx context.Context, bucket, labName, rootDir string, console *ui.Console) (int, error) {
	if u.Client == nil {
		return 0, fmt.Errorf("backup client is not configured")
	}
	if console == nil {
		console = ui.New(nil)
	}

	if err := u.ensureBucket(ctx, bucket, console); err != nil {
		return 0, err
	}

	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	prefix := fmt.Sprintf("%s/%s", labName, now().UTC().Format("20060102-150405"))

	count := 0
	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		key := prefix + "/" + filepath.ToSlash(relPath)

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := u.Client.PutObject(ctx, bucket, key, file); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		console.ItemPlain("uploaded " + key)
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

func (u Uploader) ensureBucket(ctx context.Context, bucket string, console *ui.Console) error {
	names, err := u.Client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}
	for _, name := range names {
		if name == bucket {
			return nil
		}
	}

	if err := u.Client.CreateBucket(ctx, bucket); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	console.ItemPlain("created bucket " + bucket)
	return nil
}
