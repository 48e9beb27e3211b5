// linkhoard-capture is the quick-add companion to the linkhoard server,
// filling the role of the browser-extension popup: grab a URL (argument or
// clipboard), attach a title, tags, and a folder, and save it to the
// configured backend.
//
// Usage:
//
//	linkhoard-capture login -server http://localhost:8080 -email you@example.com
//	linkhoard-capture -url https://example.com -title "Example" -tags go,web
//	linkhoard-capture            # takes the URL from the clipboard
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/client"
)

// captureConfig is persisted under ~/.config/linkhoard/config.yaml: the
// backend base URL and session token, the CLI's equivalent of the
// extension's stored settings.
type captureConfig struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linkhoard", "config.yaml"), nil
}

func loadConfig() (*captureConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg := &captureConfig{ServerURL: "http://localhost:8080"}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func saveConfig(cfg *captureConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "login" {
		if err := runLogin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "login failed:", err)
			os.Exit(1)
		}
		return
	}

	if err := runCapture(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	server := fs.String("server", "", "linkhoard server base URL")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *server != "" {
		cfg.ServerURL = *server
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	password := os.Getenv("LINKHOARD_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	c := client.New(cfg.ServerURL)
	user, err := c.Login(context.Background(), *email, password)
	if err != nil {
		return err
	}

	cfg.Token = c.Token()
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func runCapture(args []string) error {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	rawURL := fs.String("url", "", "URL to save (default: clipboard contents)")
	title := fs.String("title", "", "bookmark title (default: the URL)")
	tags := fs.String("tags", "", "comma-separated tags")
	folder := fs.String("folder", "", "folder to file the bookmark under")
	toRead := fs.Bool("read-later", false, "mark as unread")
	notes := fs.String("notes", "", "notes to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return fmt.Errorf("not logged in - run: linkhoard-capture login -email you@example.com")
	}

	u := *rawURL
	if u == "" {
		u, err = clipboard.ReadAll()
		if err != nil || strings.TrimSpace(u) == "" {
			return fmt.Errorf("no -url given and nothing usable on the clipboard")
		}
		u = strings.TrimSpace(u)
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("not a URL: %q", u)
	}

	t := *title
	if t == "" {
		t = u
	}

	req := client.AddRequest{
		URL:    u,
		Title:  t,
		Notes:  *notes,
		ToRead: *toRead,
	}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}
	if *folder != "" {
		req.Folders = []string{*folder}
	}

	c := client.New(cfg.ServerURL)
	c.SetToken(cfg.Token)
	c.SetAlertFunc(func(msg string) { fmt.Fprintln(os.Stderr, msg) })

	store := client.NewStore(c)
	if err := store.Add(context.Background(), req); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}

	fmt.Println("Saved", u)
	return nil
}
