// Package search keeps a full text index of posts and accounts. Results are
// returned newest first, never ranked by relevance.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"strings"
	"unicode"

	"github.com/blugelabs/bluge"
)

var _ contract.IChangeSink = (*Index)(nil)

const (
	typePost    = "post"
	typeAccount = "account"

	fieldType     = "type"
	fieldContent  = "content"
	fieldCategory = "category"
	fieldCreated  = "created"
)

// Hits are the ids matching a query, newest first.
type Hits struct {
	PostIDs    []string
	AccountIDs []string
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open opens the index stored at path, or a memory-only index when path is empty.
func Open(path string, log *slog.Logger) (*Index, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return NewIndex(writer, log), nil
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Record indexes the accounts and posts carried by committed changes.
func (i *Index) Record(_ context.Context, change domain.Change) {
	var err error
	switch {
	case change.Kind == domain.ChangePost && change.Post != nil:
		err = i.IndexPost(*change.Post)
	case (change.Kind == domain.ChangeAccount || change.Kind == domain.ChangeProfile) && change.Account != nil:
		err = i.IndexAccount(*change.Account)
	default:
		return
	}
	if err != nil {
		i.log.Warn("Search index update failed", "kind", change.Kind, "subject_id", change.SubjectID, "error", err)
	}
}

func (i *Index) IndexPost(post domain.Post) error {
	doc := postDocument(post)
	return i.writer.Update(doc.ID(), doc)
}

func (i *Index) IndexAccount(account domain.Account) error {
	doc := accountDocument(account)
	return i.writer.Update(doc.ID(), doc)
}

// Rebuild indexes every stored account and post in one batch.
func (i *Index) Rebuild(accounts []domain.Account, posts []domain.Post) error {
	batch := bluge.NewBatch()
	for _, account := range accounts {
		doc := accountDocument(account)
		batch.Update(doc.ID(), doc)
	}
	for _, post := range posts {
		doc := postDocument(post)
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}
	i.log.Info("Search index rebuilt", "accounts", len(accounts), "posts", len(posts))
	return nil
}

// Search returns up to limit posts and up to limit accounts whose words start
// with every term of query.
func (i *Index) Search(ctx context.Context, query string, limit int) (Hits, error) {
	terms := Terms(query)
	if len(terms) == 0 || limit <= 0 {
		return Hits{}, nil
	}
	reader, err := i.writer.Reader()
	if err != nil {
		return Hits{}, fmt.Errorf("open search reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	posts, err := i.find(ctx, reader, typePost, terms, limit)
	if err != nil {
		return Hits{}, err
	}
	accounts, err := i.find(ctx, reader, typeAccount, terms, limit)
	if err != nil {
		return Hits{}, err
	}
	return Hits{PostIDs: posts, AccountIDs: accounts}, nil
}

func (i *Index) find(ctx context.Context, reader *bluge.Reader, kind string, terms []string, limit int) ([]string, error) {
	query := bluge.NewBooleanQuery().AddMust(bluge.NewTermQuery(kind).SetField(fieldType))
	for _, term := range terms {
		query.AddMust(bluge.NewPrefixQuery(term).SetField(fieldContent))
	}
	request := bluge.NewTopNSearch(limit, query).SortBy([]string{"-" + fieldCreated})

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, strings.TrimPrefix(string(value), kind+"/"))
				return false
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("read %s hits: %w", kind, err)
	}
	return ids, nil
}

// Terms splits a query into the lower case words the index matches on.
func Terms(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func postDocument(post domain.Post) *bluge.Document {
	doc := bluge.NewDocument(typePost+"/"+post.ID).
		AddField(bluge.NewKeywordField(fieldType, typePost)).
		AddField(bluge.NewTextField(fieldContent, post.Text)).
		AddField(bluge.NewDateTimeField(fieldCreated, post.CreatedAt).Sortable())
	if post.Description != "" {
		doc.AddField(bluge.NewTextField(fieldContent, post.Description))
	}
	if post.Category != "" {
		doc.AddField(bluge.NewTextField(fieldContent, post.Category))
		doc.AddField(bluge.NewKeywordField(fieldCategory, strings.ToLower(post.Category)))
	}
	return doc
}

func accountDocument(account domain.Account) *bluge.Document {
	doc := bluge.NewDocument(typeAccount+"/"+account.ID).
		AddField(bluge.NewKeywordField(fieldType, typeAccount)).
		AddField(bluge.NewTextField(fieldContent, account.DisplayName)).
		AddField(bluge.NewDateTimeField(fieldCreated, account.CreatedAt).Sortable())
	if account.Bio != "" {
		doc.AddField(bluge.NewTextField(fieldContent, account.Bio))
	}
	for _, interest := range account.Interests {
		doc.AddField(bluge.NewTextField(fieldContent, interest))
	}
	return doc
}
