package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Register prompts for a username and password (twice) and creates the
// account.
func (a *App) Register(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "New username:", writer)
	if err != nil {
		return err
	}

	var password []byte
	for {
		password, err = GetPassword(writer)
		if err != nil {
			return err
		}
		confirm, err := GetPassword(writer)
		if err != nil {
			return err
		}
		if string(password) == string(confirm) {
			break
		}
		printlnFn("Passwords don't match. Try again.")
	}

	if err := a.creds.Register(ctx, username, string(password)); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("User registered successfully. You can now login with your credentials.")
	return nil
}

// Login prompts for credentials and stores the session token on success.
func (a *App) Login(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Username:", writer)
	if err != nil {
		return err
	}
	password, err := GetPassword(writer)
	if err != nil {
		return err
	}

	token, err := a.creds.Login(ctx, username, string(password))
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.token = token
	printlnFn("Login successful!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	printlnFn("Logged out.")
	return nil
}

// Upload prompts for a local path and description, then runs the upload
// flow as the logged-in user.
func (a *App) Upload(ctx context.Context) error {

	owner, err := a.currentOwner()
	if err != nil {
		printlnFn("Please login first.")
		return err
	}

	localPath, err := GetSimpleText(a.reader, "Enter the full path to the file:", writer)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Enter a description (optional):", writer)
	if err != nil {
		return err
	}

	fileID, err := a.transfer.Upload(ctx, localPath, owner, description)
	if err != nil {
		printlnFn("Upload failed:", err.Error())
		return err
	}

	printlnFn("File uploaded successfully! File ID:", fileID)
	return nil
}

// List prints the logged-in user's files.
func (a *App) List(ctx context.Context) error {

	owner, err := a.currentOwner()
	if err != nil {
		printlnFn("Please login first.")
		return err
	}

	records, err := a.transfer.ListFiles(ctx, owner)
	if err != nil {
		printlnFn("Listing failed:", err.Error())
		return err
	}

	if len(records) == 0 {
		printlnFn("You haven't uploaded any files yet.")
		return nil
	}

	for i, r := range records {
		printlnFn(fmt.Sprintf("%d. %s  %s  %.1f KB  %s",
			i+1, r.FileID, r.FileName, float64(r.Size)/1024, r.UploadDate.Format("2006-01-02 15:04:05")))
	}
	return nil
}

// Download lists the user's files, asks which one to fetch, and requires a
// fresh credential confirmation before the transfer starts.
func (a *App) Download(ctx context.Context) error {

	owner, err := a.currentOwner()
	if err != nil {
		printlnFn("Please login first.")
		return err
	}

	records, err := a.transfer.ListFiles(ctx, owner)
	if err != nil {
		printlnFn("Listing failed:", err.Error())
		return err
	}
	if len(records) == 0 {
		printlnFn("You haven't uploaded any files yet.")
		return nil
	}

	for i, r := range records {
		printlnFn(fmt.Sprintf("%d. %s  %.1f KB", i+1, r.FileName, float64(r.Size)/1024))
	}

	choice, err := GetSimpleText(a.reader, "Enter the number of the file to download (0 to cancel):", writer)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 0 || n > len(records) {
		printlnFn("Invalid selection.")
		return nil
	}
	if n == 0 {
		return nil
	}
	selected := records[n-1]

	printlnFn("Please re-enter your credentials to confirm the download.")
	username, err := GetSimpleText(a.reader, "Username:", writer)
	if err != nil {
		return err
	}
	password, err := GetPassword(writer)
	if err != nil {
		return err
	}

	destDir, err := GetSimpleText(a.reader, "Enter download directory (or press Enter for current directory):", writer)
	if err != nil {
		return err
	}
	if destDir == "" {
		destDir = "."
	}

	destPath, err := a.transfer.Download(ctx, selected.FileID, username, string(password), destDir)
	if err != nil {
		printlnFn("Download failed:", err.Error())
		return err
	}

	printlnFn("File downloaded successfully to", destPath)
	return nil
}
