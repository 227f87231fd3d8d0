// Command bookkeeper is a CLI client for the Bookkeeper server.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	clientapi "github.com/iudanet/bookkeeper/internal/client/api"
	"github.com/iudanet/bookkeeper/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	client := clientapi.NewClient(*serverURL)

	// Подхватываем сохраненный токен, если есть
	if tok, err := loadToken(); err == nil && tok != "" {
		client.SetToken(tok)
	}

	ctx := context.Background()

	if err := runCommand(ctx, client, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCommand выполняет одну команду CLI
func runCommand(ctx context.Context, client *clientapi.Client, command string, args []string) error {
	switch command {
	case "register":
		return cmdRegister(ctx, client)
	case "login":
		return cmdLogin(ctx, client)
	case "books":
		return cmdBooks(ctx, client)
	case "all":
		return cmdAllBooks(ctx, client)
	case "add":
		return cmdAddBook(ctx, client, args)
	case "delete":
		return cmdDeleteBook(ctx, client, args)
	case "favorites":
		return cmdFavorites(ctx, client)
	case "fav-add":
		return cmdFavAdd(ctx, client, args)
	case "fav-remove":
		return cmdFavRemove(ctx, client, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func cmdRegister(ctx context.Context, client *clientapi.Client) error {
	name, err := readInput("Name: ")
	if err != nil {
		return err
	}
	email, err := readInput("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := client.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered: %s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	return nil
}

func cmdLogin(ctx context.Context, client *clientapi.Client) error {
	email, err := readInput("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := client.Login(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := saveToken(resp.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("Logged in as %s\n", resp.Name)
	return nil
}

func cmdBooks(ctx context.Context, client *clientapi.Client) error {
	books, err := client.MyBooks(ctx)
	if err != nil {
		return err
	}
	printBooks(books)
	return nil
}

func cmdAllBooks(ctx context.Context, client *clientapi.Client) error {
	books, err := client.AllBooks(ctx)
	if err != nil {
		return err
	}
	printBooks(books)
	return nil
}

func cmdAddBook(ctx context.Context, client *clientapi.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Book title (required)")
	author := fs.String("author", "", "Book author (required)")
	note := fs.String("note", "", "Optional note")
	file := fs.String("file", "", "Path to PDF file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" || *author == "" || *file == "" {
		return fmt.Errorf("title, author and file are required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	book, err := client.UploadBook(ctx, *title, *author, *note, filepath.Base(*file), data)
	if err != nil {
		return err
	}

	fmt.Printf("Added book %q (id %s)\n", book.Title, book.ID)
	return nil
}

func cmdDeleteBook(ctx context.Context, client *clientapi.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <book-id>")
	}
	if err := client.DeleteBook(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Book deleted")
	return nil
}

func cmdFavorites(ctx context.Context, client *clientapi.Client) error {
	books, err := client.Favorites(ctx)
	if err != nil {
		return err
	}
	printBooks(books)
	return nil
}

func cmdFavAdd(ctx context.Context, client *clientapi.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fav-add <book-id>")
	}
	resp, err := client.AddFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d favorites)\n", resp.Message, len(resp.Favorites))
	return nil
}

func cmdFavRemove(ctx context.Context, client *clientapi.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fav-remove <book-id>")
	}
	resp, err := client.RemoveFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d favorites)\n", resp.Message, len(resp.Favorites))
	return nil
}

// printBooks печатает список книг в консоль
func printBooks(books []api.BookResponse) {
	if len(books) == 0 {
		fmt.Println("No books")
		return
	}
	for _, b := range books {
		fmt.Printf("%s  %q by %s", b.ID, b.Title, b.Author)
		if b.Note != "" {
			fmt.Printf("  (%s)", b.Note)
		}
		fmt.Println()
	}
}

// readInput читает строку из stdin с приглашением
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword читает пароль без эха
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// tokenPath возвращает путь к файлу с сохраненным токеном
func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookkeeper", "token"), nil
}

// saveToken сохраняет токен в конфигурационной директории пользователя
func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

// loadToken читает сохраненный токен
func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func printUsage() {
	fmt.Println(`Bookkeeper CLI

Usage:
  bookkeeper [flags] <command> [args]

Commands:
  register                Register a new account
  login                   Log in and store the token
  books                   List your books
  all                     List all books
  add                     Upload a book (-title -author -note -file)
  delete <book-id>        Delete your book
  favorites               List favorite books
  fav-add <book-id>       Add a book to favorites
  fav-remove <book-id>    Remove a book from favorites

Flags:
  -server URL             Server URL (default http://localhost:8080)
  -version                Show version information`)
}

func printVersion() {
	fmt.Printf("Bookkeeper CLI\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
