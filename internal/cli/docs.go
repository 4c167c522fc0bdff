// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - Document management command handlers.
//
// Handles "docsage docs" subcommands:
//
//	list            List indexed documents (default)
//	upload FILES    Upload and index documents
//	show ID         Show a document's chunks
//	download ID     Write a document's original file to the working directory
//	delete ID       Delete a document and its chunks
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/docsage/docsage-tui/internal/api"
	"github.com/docsage/docsage-tui/internal/ui/components"
)

// HandleDocs routes the docs subcommands.
func HandleDocs(args Args) {
	client, _ := NewAPIClient(args)
	ctx := context.Background()

	switch args.Subcommand {
	case "", "list", "ls":
		docsList(ctx, client, args)
	case "upload", "add":
		docsUpload(ctx, client, args)
	case "show", "chunks":
		docsShow(ctx, client, args)
	case "download", "get":
		docsDownload(ctx, client, args)
	case "delete", "rm":
		docsDelete(ctx, client, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown docs subcommand %q\n", args.Subcommand)
		fmt.Fprintln(os.Stderr, "Usage: docsage docs [list|upload|show|download|delete]")
		os.Exit(1)
	}
}

func docsList(ctx context.Context, client *api.Client, args Args) {
	docs, err := client.ListDocuments(ctx)
	if err != nil {
		exitErr(err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(docs) == 0 {
		fmt.Println(MetaStyle.Render("No documents indexed yet."))
		return
	}

	fmt.Println(TitleStyle.Render("Documents"))
	for _, doc := range docs {
		fmt.Printf("  %4d  %s  %s\n",
			doc.ID,
			doc.Filename,
			MetaStyle.Render(components.FmtNumber(doc.ChunkCount)+" chunks"))
	}
}

func docsUpload(ctx context.Context, client *api.Client, args Args) {
	if len(args.Raw) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: docsage docs upload FILE [FILE...]")
		os.Exit(1)
	}

	result, err := client.Upload(ctx, args.Raw)
	if err != nil {
		exitErr(err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, doc := range result.Success {
		fmt.Printf("%s %s (%s chunks)\n",
			SuccessStyle.Render("✓"), doc.Filename, components.FmtNumber(doc.ChunkCount))
	}
	for _, e := range result.Errors {
		fmt.Printf("%s %s: %s\n", ErrorStyle.Render("✗"), e.Filename, e.Error)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func docsShow(ctx context.Context, client *api.Client, args Args) {
	id := docIDArg(args)

	doc, err := client.GetDocument(ctx, id)
	if err != nil {
		exitErr(err)
	}
	chunks, err := client.Chunks(ctx, id)
	if err != nil {
		exitErr(err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(struct {
			Document *api.Document `json:"document"`
			Chunks   []api.Chunk   `json:"chunks"`
		}{doc, chunks}, "", "  ")
		fmt.Println(string(out))
		return
	}

	lang := components.LanguageForFilename(doc.Filename)

	fmt.Println(TitleStyle.Render(doc.Filename))
	for i, chunk := range chunks {
		meta := fmt.Sprintf("chunk %d/%d", i+1, len(chunks))
		if chunk.Page != nil {
			meta += fmt.Sprintf(", page %d", *chunk.Page)
		}
		fmt.Println(MetaStyle.Render("── " + meta))

		text := chunk.TextPreview
		if lang != "" && ColorsEnabled() {
			text = components.HighlightSnippet(text, lang)
		}
		fmt.Println(text)
		fmt.Println()
	}
}

func docsDownload(ctx context.Context, client *api.Client, args Args) {
	id := docIDArg(args)

	doc, err := client.GetDocument(ctx, id)
	if err != nil {
		exitErr(err)
	}

	body, err := client.Download(ctx, id)
	if err != nil {
		exitErr(err)
	}
	defer body.Close()

	out, err := os.Create(doc.Filename)
	if err != nil {
		exitErr(err)
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		exitErr(err)
	}
	fmt.Printf("%s wrote %s (%s bytes)\n",
		SuccessStyle.Render("✓"), doc.Filename, components.FmtNumber(int(n)))
}

func docsDelete(ctx context.Context, client *api.Client, args Args) {
	id := docIDArg(args)

	if err := client.DeleteDocument(ctx, id); err != nil {
		exitErr(err)
	}
	fmt.Printf("%s deleted document %d\n", SuccessStyle.Render("✓"), id)
}

func docIDArg(args Args) int64 {
	if len(args.Raw) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: docsage docs %s DOC_ID\n", args.Subcommand)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(args.Raw[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid document id %q\n", args.Raw[0])
		os.Exit(1)
	}
	return id
}
