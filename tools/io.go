package tools

import (
	"os"
	"path/filepath"
)

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// Creates the folder that will contain filePath
func CreateParentDirectory(filePath string) error {
	return CreateDirectoryIfDoesNotExist(filepath.Dir(filePath))
}
