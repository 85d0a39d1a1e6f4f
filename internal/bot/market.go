package bot

import (
	"fmt"
	"strings"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/models"
	"gopkg.in/telebot.v4"
)

func (b *Bot) featuredHandler(c telebot.Context) error {
	products, err := b.market.FeaturedAds(b.ctx)
	if err != nil {
		return b.replyError(c, "bot.featured", err, "Could not load the featured slide.")
	}
	return c.Send(renderProducts("Featured on campus:", products))
}

func (b *Bot) subscribeHandler(c telebot.Context) error {
	if err := b.repo.SubscribeChat(b.ctx, c.Chat().ID); err != nil {
		return b.replyError(c, "bot.subscribe", err, "Could not subscribe, try again.")
	}
	return c.Send("You will be told when new products are featured. /unsubscribe to stop.")
}

func (b *Bot) unsubscribeHandler(c telebot.Context) error {
	if err := b.repo.UnsubscribeChat(b.ctx, c.Chat().ID); err != nil {
		return b.replyError(c, "bot.unsubscribe", err, "Could not unsubscribe, try again.")
	}
	return c.Send("Featured alerts are off.")
}

func (b *Bot) packagesHandler(c telebot.Context) error {
	const op = "bot.packages"

	token, err := b.token(c)
	if err != nil {
		return b.replyError(c, op, err, "Could not load ad packages.")
	}

	packages, err := b.market.AdPackages(b.ctx, token)
	if err != nil {
		return b.replyAuthorized(c, op, err, "Could not load ad packages.")
	}
	return c.Send(renderPackages(packages))
}

func renderPackages(packages []models.AdPackage) string {
	if len(packages) == 0 {
		return "No ad packages are on offer right now."
	}

	var sb strings.Builder
	sb.WriteString("Ad packages:\n")
	for _, p := range packages {
		fmt.Fprintf(&sb, "\n%s (id %s) · %s %s · %dh\n", p.Name, p.ID, p.Price.StringFixed(2), models.CurrencyPulses, p.DurationHours)
		if p.Description != "" {
			sb.WriteString("   " + truncate(p.Description, descriptionLimit) + "\n")
		}
	}
	sb.WriteString("\nPromote a product with /buyad <product> <package>.")
	return sb.String()
}

func (b *Bot) buyAdHandler(c telebot.Context) error {
	const op = "bot.buyad"

	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /buyad <product> <package>")
	}
	purchase := api.PurchaseRequest{ProductID: args[0], PackageID: args[1]}
	if err := b.validateArgs(purchase); err != nil {
		return c.Send("Cannot buy: " + err.Error())
	}

	token, err := b.token(c)
	if err != nil {
		return b.replyError(c, op, err, "The purchase failed.")
	}
	if err = b.market.PurchaseAd(b.ctx, token, purchase); err != nil {
		return b.replyAuthorized(c, op, err, "The purchase failed.")
	}
	return c.Send("Ad purchased. Your product will show up in the featured slide.")
}

func (b *Bot) rolesHandler(c telebot.Context) error {
	const op = "bot.roles"

	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /roles <user> <ROLE,ROLE>")
	}
	update := api.RoleUpdate{UserID: args[0], Roles: splitRoles(args[1])}
	if err := b.validateArgs(update); err != nil {
		return c.Send("Cannot update roles: " + err.Error())
	}

	token, err := b.token(c)
	if err != nil {
		return b.replyError(c, op, err, "Could not update roles.")
	}
	if err = b.market.SetRoles(b.ctx, token, update); err != nil {
		return b.replyAuthorized(c, op, err, "Could not update roles.")
	}
	return c.Send(fmt.Sprintf("Roles of %s set to %s.", update.UserID, strings.Join(update.Roles, ", ")))
}

func splitRoles(arg string) []string {
	var roles []string
	for _, r := range strings.Split(arg, ",") {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

func (b *Bot) toggleUserHandler(c telebot.Context) error {
	const op = "bot.toggleuser"

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /toggleuser <user>")
	}

	token, err := b.token(c)
	if err != nil {
		return b.replyError(c, op, err, "Could not change the account.")
	}
	if err = b.market.ToggleUser(b.ctx, token, args[0]); err != nil {
		return b.replyAuthorized(c, op, err, "Could not change the account.")
	}
	return c.Send(fmt.Sprintf("Account %s toggled.", args[0]))
}
