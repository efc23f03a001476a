package services

import (
	"context"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/media"
	"social-lab/repositories"
)

var _ contract.IAccountDirectory = (*Directory)(nil)

// Directory exposes accounts as the summaries embedded in feeds and lists.
type Directory struct {
	accounts repositories.IAccountRepository
	media    *media.Resolver
}

func NewDirectory(accounts repositories.IAccountRepository, media *media.Resolver) *Directory {
	return &Directory{accounts: accounts, media: media}
}

func (d *Directory) Summary(ctx context.Context, accountID string) (domain.AccountSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountSummary{}, err
	}
	account, err := d.accounts.GetAccount(accountID)
	if err != nil {
		return domain.AccountSummary{}, err
	}
	return d.summarize(account), nil
}

func (d *Directory) Placeholder(accountID string) domain.AccountSummary {
	return domain.AccountSummary{
		ID:          accountID,
		DisplayName: domain.UnknownUser,
		AvatarURL:   d.media.AvatarURL(""),
	}
}

func (d *Directory) summarize(account domain.Account) domain.AccountSummary {
	return domain.AccountSummary{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		AvatarURL:   d.media.AvatarURL(account.AvatarRef),
	}
}
