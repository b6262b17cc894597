package namedata

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// UnpackArchive unpacks the file in place and returns where the content
// landed: the containing directory for zip archives (SSA ships one data
// file per year/state inside), the extracted file path for gz/lz4. Unknown
// extensions are returned untouched so plain text files pass through.
func UnpackArchive(filePath string) (string, error) {
	ext := filepath.Ext(filePath)
	if ext == ".zip" {
		return unpackZipArchive(filePath)
	} else if ext == ".gz" {
		return unpackGzipArchive(filePath)
	} else if ext == ".lz4" {
		return unpackLZ4Archive(filePath)
	}
	return filePath, nil
}

func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	destDir := filepath.Dir(filePath)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Archive members are flat data files; strip any path component so
		// a crafted archive cannot write outside destDir.
		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extractZipMember(f, destPath); err != nil {
			return "", err
		}
	}

	if err := os.Remove(filePath); err != nil {
		return "", err
	}
	return destDir, nil
}

func extractZipMember(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, rc)
	return err
}

func unpackGzipArchive(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	gr, err := gzip.NewReader(file)
	if err != nil {
		return "", err
	}
	defer gr.Close()

	destPath := strings.TrimSuffix(filePath, ".gz")
	outFile, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, gr)
	if err != nil {
		return "", err
	}

	if err := os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}

func unpackLZ4Archive(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	destPath := strings.TrimSuffix(filePath, ".lz4")
	outFile, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, lz4.NewReader(file))
	if err != nil {
		return "", err
	}

	if err := os.Remove(filePath); err != nil {
		return "", err
	}
	return destPath, nil
}
