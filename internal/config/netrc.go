package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// netrcEntry represents credentials for a single machine in .netrc.
type netrcEntry struct {
	Login    string
	Password string
}

// lookupNetrc finds credentials for host in the user's .netrc, honoring a
// "default" entry when no machine matches.
func lookupNetrc(host string) (login, password string, ok bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", false
	}

	entries, err := parseNetrc(filepath.Join(home, ".netrc"))
	if err != nil || entries == nil {
		return "", "", false
	}

	entry, found := entries[host]
	if !found {
		entry, found = entries["default"]
	}
	if !found || entry.Login == "" {
		return "", "", false
	}
	return entry.Login, entry.Password, true
}

// parseNetrc reads and parses a .netrc file into machine -> entry. A missing
// file is not an error.
func parseNetrc(path string) (map[string]netrcEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := make(map[string]netrcEntry)
	var machine string
	var current netrcEntry

	save := func() {
		if machine != "" {
			entries[machine] = current
		}
	}

	scanner := bufio.NewScanner(file)
	var tokens []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "machine":
			if i+1 >= len(tokens) {
				break
			}
			save()
			machine = tokens[i+1]
			current = netrcEntry{}
			i++
		case "default":
			save()
			machine = "default"
			current = netrcEntry{}
		case "login":
			if i+1 < len(tokens) {
				current.Login = tokens[i+1]
				i++
			}
		case "password":
			if i+1 < len(tokens) {
				current.Password = tokens[i+1]
				i++
			}
		case "account", "macdef":
			// values we don't use; skip the argument
			if i+1 < len(tokens) {
				i++
			}
		}
	}
	save()

	return entries, nil
}
