package namedata

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

const (
	nationalArchiveURL = "https://www.ssa.gov/oact/babynames/names.zip"
	stateArchiveURL    = "https://www.ssa.gov/oact/babynames/state/namesbystate.zip"
)

// DownloadNational fetches and unpacks the national dataset archive into
// dataDir/national, returning the directory holding the yob*.txt files.
func DownloadNational(dataDir string) (string, error) {
	return downloadAndUnpack(nationalArchiveURL, filepath.Join(dataDir, "national"))
}

// DownloadState fetches and unpacks the state dataset archive into
// dataDir/state, returning the directory holding the per-state .TXT files.
func DownloadState(dataDir string) (string, error) {
	return downloadAndUnpack(stateArchiveURL, filepath.Join(dataDir, "state"))
}

func downloadAndUnpack(url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return "", err
	}
	archivePath := filepath.Join(destDir, filepath.Base(url))

	resp, err := http.Get(url)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		log.Printf("Error creating file: %v", err)
		return "", err
	}
	defer file.Close()
	_, err = io.Copy(file, resp.Body)
	if err != nil {
		log.Printf("Error writing file: %v", err)
		return "", err
	}

	unpacked, err := UnpackArchive(archivePath)
	if err != nil {
		log.Printf("Error unpacking file: %v", err)
		return "", err
	}
	// zip unpacks to the directory, gz/lz4 to a file inside it
	if info, statErr := os.Stat(unpacked); statErr == nil && info.IsDir() {
		return unpacked, nil
	}
	return filepath.Dir(unpacked), nil
}
