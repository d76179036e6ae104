package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/redeem"
	"github.com/elsanchez/free-games-claimer/internal/screenshot"
)

const shotDir = "prime-gaming"

// signedIn selects the account and opens the games tab
func (r *run) signedIn(ctx context.Context) (State, error) {
	user, err := r.page.InnerText(ctx, selUser)
	if err != nil {
		return StateDone, fmt.Errorf("read user name: %w", err)
	}
	r.user = user
	r.account = r.lib.Account(user)
	slog.Info("signed in", "user", user)

	if err := r.openGames(ctx); err != nil {
		return StateDone, err
	}

	if n, err := r.page.Count(ctx, selCollected); err == nil {
		slog.Info("already claimed games", "count", n)
	}
	return StateClaimInternal, nil
}

func (r *run) openGames(ctx context.Context) error {
	if err := r.page.Click(ctx, selGamesTab); err != nil {
		return fmt.Errorf("open games tab: %w", err)
	}
	if err := r.page.WaitVisible(ctx, selGames); err != nil {
		return fmt.Errorf("open games tab: %w", err)
	}
	return nil
}

// claimInternal claims every in-catalog game with a single click each. The
// titles are read up front and every card is then addressed by its title, so
// cards vanishing after a claim do not shift the remaining ones.
func (r *run) claimInternal(ctx context.Context) (State, error) {
	titles, err := r.page.AllInnerTexts(ctx, selInternal+" "+selCardTitle)
	if err != nil {
		return StateDone, fmt.Errorf("list internal offers: %w", err)
	}
	slog.Info("free unclaimed games (prime gaming)", "count", len(titles))

	for _, title := range titles {
		slog.Info("current free game", "title", title)
		if r.cfg.DryRun {
			continue
		}

		card := cardWithTitle(selInternal, title)
		name := screenshot.Name(shotDir, "internal", screenshot.FileName(title))
		if err := r.screenshot(ctx, card, false, name); err != nil {
			return StateDone, err
		}
		if err := r.page.Click(ctx, card+" "+selClaimGame); err != nil {
			return StateDone, fmt.Errorf("claim %s: %w", title, err)
		}

		r.account.Add(domain.ClaimEntry{Title: title, Time: r.now(), Store: domain.StoreInternal})
		r.items = append(r.items, domain.NotifyItem{Title: title, Status: domain.StatusClaimed, URL: URLClaim})
	}
	return StateClaimExternal, nil
}

// claimExternal handles the first external offer not yet visited in this run
// and comes back for the next one until none is left.
func (r *run) claimExternal(ctx context.Context) (State, error) {
	titles, err := r.page.AllInnerTexts(ctx, selExternal+" "+selCardTitle)
	if err != nil {
		return StateDone, fmt.Errorf("list external offers: %w", err)
	}
	slog.Info("free unclaimed games (external stores)", "count", len(titles))

	if r.cfg.DryRun {
		for _, title := range titles {
			slog.Info("current free game", "title", title)
		}
		return StateDone, nil
	}

	title := ""
	for _, t := range titles {
		if !r.visited[t] {
			title = t
			break
		}
	}
	if title == "" {
		return StateDone, nil
	}
	r.visited[title] = true
	slog.Info("current free game", "title", title)

	if err := r.claimExternalOffer(ctx, title); err != nil {
		return StateDone, err
	}

	if err := r.page.Goto(ctx, URLClaim); err != nil {
		return StateDone, err
	}
	if err := r.openGames(ctx); err != nil {
		return StateDone, err
	}
	return StateClaimExternal, nil
}

func (r *run) claimExternalOffer(ctx context.Context, title string) error {
	card := cardWithTitle(selExternal, title)
	if err := r.page.Click(ctx, card+" "+selClaimLink); err != nil {
		return fmt.Errorf("open %s: %w", title, err)
	}

	clickWhenVisible := func(sel string) func(context.Context) error {
		return func(ctx context.Context) error {
			if err := r.page.WaitVisible(ctx, sel); err != nil {
				return err
			}
			return r.page.Click(ctx, sel)
		}
	}
	_, err := firstOf(ctx,
		clickWhenVisible(selClaimNow),
		clickWhenVisible(selComplete),
		func(ctx context.Context) error { return r.page.WaitVisible(ctx, selLinkAcct) },
	)
	if err != nil {
		return fmt.Errorf("claim %s: %w", title, err)
	}

	subtitle, err := r.page.InnerText(ctx, selSubtitle)
	if err != nil {
		return fmt.Errorf("read store of %s: %w", title, err)
	}
	store := redeem.ParseStore(subtitle)
	url := stripQuery(r.page.URL())
	slog.Info("external store", "title", title, "store", store)

	entry, created := r.account.Add(domain.ClaimEntry{Title: title, Time: r.now(), Store: store, URL: url})

	r.items = append(r.items, domain.NotifyItem{Title: title, URL: url, Status: domain.StatusFailedLink(store)})
	item := &r.items[len(r.items)-1]

	if n, err := r.page.Count(ctx, selLinkAcct); err != nil {
		return err
	} else if n > 0 {
		slog.Error("account linking is required to claim this offer", "title", title, "store", store)
		return nil
	}

	item.Status = domain.StatusClaimedOn(store)

	st, known := redeem.Lookup(store)
	inputs := 0
	if known {
		if inputs, err = r.page.Count(ctx, selCodeInput); err != nil {
			return err
		}
		if inputs == 0 {
			slog.Warn("no redeem code shown", "title", title, "store", store)
		}
	}

	if inputs > 0 {
		code, err := r.page.InputValue(ctx, selCodeInput)
		if err != nil {
			return fmt.Errorf("read code of %s: %w", title, err)
		}

		redeemURL := st.RedeemURL
		if st.URLSelector != "" {
			if href, err := r.page.Attribute(ctx, st.URLSelector, "href"); err == nil && href != "" {
				redeemURL = href
			}
		}
		slog.Info("code to redeem game", "title", title, "code", code, "url", redeemURL)

		if created {
			entry.Code = code
		}
		item.Code = code
		item.RedeemURL = redeemURL

		if r.cfg.Redeem {
			status, err := r.redeemCode(ctx, st, redeemURL, code)
			if err != nil {
				return err
			}
			item.Status = status
			item.Store = store
		}
	}

	name := screenshot.Name(shotDir, "external", screenshot.FileName(title))
	return r.screenshot(ctx, "", true, name)
}

// redeemCode submits code on a second page, which is always closed again
func (r *run) redeemCode(ctx context.Context, st redeem.Store, redeemURL, code string) (string, error) {
	if !st.Automatic() {
		slog.Warn("automatic redemption is not implemented for this store", "store", st.Key)
		return redeem.DefaultStatus, nil
	}
	slog.Info("trying to redeem code (need to be logged in)", "store", st.Key, "code", code)

	page, err := r.session.NewPage(ctx)
	if err != nil {
		return "", fmt.Errorf("open redeem page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Warn("failed to close redeem page", "error", err)
		}
	}()

	if err := page.Goto(ctx, redeemURL); err != nil {
		return "", err
	}
	status, err := st.Strategy.Redeem(ctx, page, code)
	if err != nil {
		return "", fmt.Errorf("redeem on %s: %w", st.Key, err)
	}
	slog.Info("redeem result", "store", st.Key, "status", status)
	return status, nil
}

// finish captures the offer list as it looks after the run
func (r *run) finish(ctx context.Context) error {
	name := screenshot.Name(shotDir, screenshot.TimeName(r.now()))
	return r.screenshot(ctx, selGames, false, name)
}
