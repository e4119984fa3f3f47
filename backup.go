package main

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// runBackup tars up the configured folder and uploads the archive through
// the bucket client. Archives accumulate under timestamped keys; nothing is
// ever overwritten or pruned remotely.
func runBackup(ctx context.Context, client BucketClient, bc BackupConfig, notifier Notifier) {
	fileMap, walkErr := concreteWalkFunc(bc.SourceFolder)
	if walkErr != nil {
		log.Error(fmt.Sprintf("Backup directory walk failed: %s", walkErr))
		return
	}

	relPaths := make([]string, 0, len(fileMap))
	for rel := range fileMap {
		relPaths = append(relPaths, rel)
	}
	sort.Strings(relPaths)

	backupTimestamp := time.Now().Format(time.RFC3339)
	keyBase := strings.TrimPrefix(strings.ReplaceAll(bc.SourceFolder, "/", "_"), "_")
	tarFile, tmpErr := os.CreateTemp(os.TempDir(), fmt.Sprintf("%s_%s_*.tar.gz", keyBase, backupTimestamp))
	if tmpErr != nil {
		log.Error(fmt.Sprintf("Could not create backup tempfile: %s", tmpErr))
		return
	}
	defer os.Remove(tarFile.Name())

	log.Info(fmt.Sprintf("Creating backup tarball: %s", tarFile.Name()))
	archiveErr := createArchive(bc.SourceFolder, relPaths, tarFile)
	closeErr := tarFile.Close()
	if archiveErr == nil {
		archiveErr = closeErr
	}
	if archiveErr != nil {
		log.Error(fmt.Sprintf("Backup archive creation failed: %s", archiveErr))
		return
	}

	uploadFile, openErr := os.Open(tarFile.Name())
	if openErr != nil {
		log.Warn("Error uploading backup: ", openErr)
		return
	}
	defer uploadFile.Close()

	fileKey := filepath.Base(tarFile.Name())
	putErr := client.UploadFile(ctx, bc.DestinationBucket, fileKey, uploadFile)
	if putErr != nil {
		log.Warn("Backup upload error: ", putErr)
	} else {
		log.Info("Upload succeeded for ", fileKey)
	}

	if notifier != nil {
		stat, _ := os.Stat(tarFile.Name())
		var size int64
		if stat != nil {
			size = stat.Size()
		}
		notifier.NotifyBackupResults(bc, fileKey, size, putErr)
	}
}

// createArchive writes the given root-relative paths into a tar.gz stream.
// Entries keep their relative names so a restore lands where it started.
func createArchive(root string, relPaths []string, buf io.Writer) error {
	gw := gzip.NewWriter(buf)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()

	for _, rel := range relPaths {
		if err := addToArchive(tw, root, rel); err != nil {
			return err
		}
	}

	return nil
}

func addToArchive(tw *tar.Writer, root, rel string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, info.Name())
	if err != nil {
		return err
	}
	header.Name = rel

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, file)
	return err
}
