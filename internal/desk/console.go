package desk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

const consoleHelp = `commands:
  clients | categories | units | items      list reference data
  tariffs | ranged                          list tariffs
  expiring                                  clients with tariffs near expiry
  history [client=ID] [moved_at=YYYY-MM-DD] archived tariff versions
  tariff new | tariff edit ID | tariff delete ID
  ranged new | ranged edit ID | ranged delete ID
  client|unit|category|item new | edit ID | delete ID
  increase                                  bulk percentage increase
  refresh                                   drop cached data
  quit
`

// Console is the line-oriented front end over a Session. Errors are printed
// and the loop keeps going.
type Console struct {
	session *Session
	in      *bufio.Scanner
	out     io.Writer
}

func NewConsole(session *Session, in io.Reader, out io.Writer) *Console {
	return &Console{session: session, in: bufio.NewScanner(in), out: out}
}

// Run reads commands until quit or end of input.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprint(c.out, consoleHelp)
	for {
		line, ok := c.prompt("> ")
		if !ok {
			return c.in.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, fields); err != nil {
			c.printError(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Console) dispatch(ctx context.Context, fields []string) error {
	switch fields[0] {
	case "help":
		fmt.Fprint(c.out, consoleHelp)
		return nil
	case "refresh":
		c.session.Refresh()
		fmt.Fprintln(c.out, "cache cleared")
		return nil
	case "clients":
		return c.listEntities(c.session.Clients(ctx))
	case "categories":
		return c.listEntities(c.session.Categories(ctx))
	case "units":
		return c.listEntities(c.session.Units(ctx))
	case "items":
		return c.listItems(ctx)
	case "tariffs":
		return c.listTariffs(ctx)
	case "ranged":
		if len(fields) > 1 {
			return c.rangedCommand(ctx, fields[1:])
		}
		return c.listRanged(ctx)
	case "expiring":
		return c.listExpiring(ctx)
	case "history":
		return c.listHistory(ctx, fields[1:])
	case "tariff":
		return c.tariffCommand(ctx, fields[1:])
	case "client", "unit", "category":
		return c.entityCommand(ctx, fields[0], fields[1:])
	case "item":
		return c.itemCommand(ctx, fields[1:])
	case "increase":
		return c.increase(ctx)
	}
	return fmt.Errorf("unknown command %q, type help", fields[0])
}

func (c *Console) listEntities(list []catalog.Entity, err error) error {
	if err != nil {
		return err
	}
	tw := c.table("ID", "NAME")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\n", e.ID, e.Name)
	}
	return tw.Flush()
}

func (c *Console) listItems(ctx context.Context) error {
	list, err := c.session.Items(ctx)
	if err != nil {
		return err
	}
	tw := c.table("ID", "NAME", "CATEGORY")
	for _, it := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Name, it.CategoryName)
	}
	return tw.Flush()
}

func (c *Console) listTariffs(ctx context.Context) error {
	list, err := c.session.Tariffs(ctx)
	if err != nil {
		return err
	}
	tw := c.table("ID", "CLIENT", "CATEGORY", "ITEM", "UNIT", "PRICE", "MINIMUM", "INC %", "FROM", "TO")
	for _, t := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.ClientName, t.CategoryName, t.ItemName, t.UnitName,
			money(t.Price), optMoney(t.Minimum), money(t.IncrementPct), t.ValidFrom, optDate(t.ValidTo))
	}
	return tw.Flush()
}

func (c *Console) listRanged(ctx context.Context) error {
	list, err := c.session.RangedTariffs(ctx)
	if err != nil {
		return err
	}
	tw := c.table("ID", "CLIENT", "ITEM", "UNIT", "QTY", "PRICE", "FROM", "TO")
	for _, t := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s-%s\t%s\t%s\t%s\n",
			t.ID, t.ClientName, t.ItemName, t.UnitName, money(t.FromQty), money(t.ToQty),
			money(t.Price), t.ValidFrom, optDate(t.ValidTo))
	}
	return tw.Flush()
}

func (c *Console) listExpiring(ctx context.Context) error {
	list, err := c.session.Expiring(ctx)
	if err != nil {
		return err
	}
	tw := c.table("ID", "CLIENT", "FIRST EXPIRY", "TARIFFS")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.ID, e.Name, e.FirstExpiry, e.TariffCount)
	}
	return tw.Flush()
}

func (c *Console) listHistory(ctx context.Context, args []string) error {
	query := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || (key != "client" && key != "moved_at") {
			return fmt.Errorf("history filters are client=ID and moved_at=YYYY-MM-DD")
		}
		query.Set(key, value)
	}
	list, err := c.session.History(ctx, query)
	if err != nil {
		return err
	}
	tw := c.table("ID", "TARIFF", "CLIENT", "ITEM", "UNIT", "PRICE", "FROM", "TO", "USER", "MOVED AT")
	for _, h := range list {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			h.HistoryID, h.TariffID, h.ClientName, h.ItemName, h.UnitName, money(h.Price),
			h.ValidFrom, optDate(h.ValidTo), h.UserName, h.MovedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (c *Console) tariffCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tariff new | tariff edit ID | tariff delete ID")
	}
	switch args[0] {
	case "new":
		form := TariffForm{}
		if !c.fillTariff(&form) {
			return nil
		}
		view, err := c.session.SaveTariff(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "tariff %d created\n", view.ID)
		return nil
	case "edit", "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if args[0] == "delete" {
			if err := c.session.DeleteTariff(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "tariff %d deleted\n", id)
			return nil
		}
		current, err := c.findTariff(ctx, id)
		if err != nil {
			return err
		}
		form := FormFromTariff(*current)
		if !c.fillTariff(&form) {
			return nil
		}
		if _, err := c.session.SaveTariff(ctx, form); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "tariff %d updated\n", id)
		return nil
	}
	return fmt.Errorf("unknown tariff action %q", args[0])
}

func (c *Console) findTariff(ctx context.Context, id int64) (*tariffs.View, error) {
	list, err := c.session.Tariffs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("tariff %d not found", id)
}

func (c *Console) rangedCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "new":
		form := RangedTariffForm{}
		if !c.fillRanged(&form) {
			return nil
		}
		view, err := c.session.SaveRangedTariff(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "ranged tariff %d created\n", view.ID)
		return nil
	case "edit", "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if args[0] == "delete" {
			if err := c.session.DeleteRangedTariff(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "ranged tariff %d deleted\n", id)
			return nil
		}
		current, err := c.findRanged(ctx, id)
		if err != nil {
			return err
		}
		form := FormFromRangedTariff(*current)
		if !c.fillRanged(&form) {
			return nil
		}
		if _, err := c.session.SaveRangedTariff(ctx, form); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "ranged tariff %d updated\n", id)
		return nil
	}
	return fmt.Errorf("unknown ranged action %q", args[0])
}

func (c *Console) findRanged(ctx context.Context, id int64) (*rangedtariffs.View, error) {
	list, err := c.session.RangedTariffs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("ranged tariff %d not found", id)
}

// fillRanged asks the quantity band after the usual tariff fields.
func (c *Console) fillRanged(form *RangedTariffForm) bool {
	return c.fillTariff(&form.TariffForm) &&
		c.ask("from qty", &form.FromQty) &&
		c.ask("to qty", &form.ToQty)
}

func (c *Console) fillTariff(form *TariffForm) bool {
	return c.ask("client", &form.Client) &&
		c.ask("item", &form.Item) &&
		c.ask("unit", &form.Unit) &&
		c.ask("price", &form.Price) &&
		c.ask("minimum", &form.Minimum) &&
		c.ask("increment %", &form.Increment) &&
		c.ask("valid from", &form.ValidFrom) &&
		c.ask("valid to", &form.ValidTo)
}

func (c *Console) entityCommand(ctx context.Context, resource string, args []string) error {
	if len(args) > 0 && args[0] == "delete" {
		return c.deleteCommand(ctx, resource, args[1:])
	}
	form, ok, err := c.entityForm(args)
	if err != nil || !ok {
		return err
	}
	var saved *catalog.Entity
	switch resource {
	case "client":
		saved, err = c.session.SaveClient(ctx, form)
	case "unit":
		saved, err = c.session.SaveUnit(ctx, form)
	default:
		saved, err = c.session.SaveCategory(ctx, form)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %d saved as %q\n", resource, saved.ID, saved.Name)
	return nil
}

func (c *Console) entityForm(args []string) (EntityForm, bool, error) {
	var form EntityForm
	if len(args) == 0 {
		return form, false, errors.New("usage: <resource> new | edit ID | delete ID")
	}
	if args[0] == "edit" {
		id, err := parseID(args[1:])
		if err != nil {
			return form, false, err
		}
		form.ID = &id
	} else if args[0] != "new" {
		return form, false, fmt.Errorf("unknown action %q", args[0])
	}
	return form, c.ask("name", &form.Name), nil
}

func (c *Console) deleteCommand(ctx context.Context, resource string, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	switch resource {
	case "client":
		err = c.session.DeleteClient(ctx, id)
	case "unit":
		err = c.session.DeleteUnit(ctx, id)
	case "category":
		err = c.session.DeleteCategory(ctx, id)
	default:
		err = c.session.DeleteItem(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %d deleted\n", resource, id)
	return nil
}

func (c *Console) itemCommand(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "delete" {
		return c.deleteCommand(ctx, "item", args[1:])
	}
	base, ok, err := c.entityForm(args)
	if err != nil || !ok {
		return err
	}
	form := ItemForm{ID: base.ID, Name: base.Name}
	if !c.ask("category", &form.Category) {
		return nil
	}
	saved, err := c.session.SaveItem(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "item %d saved as %q in %s\n", saved.ID, saved.Name, saved.CategoryName)
	return nil
}

func (c *Console) increase(ctx context.Context) error {
	var (
		form          IncreaseForm
		includeClient string
	)
	if !(c.ask("criterion (client, item, unit, category)", &form.Criterion) &&
		c.ask("selection", &form.Selection) &&
		c.ask("restrict to a client (y/N)", &includeClient)) {
		return nil
	}
	form.IncludeClient = strings.EqualFold(strings.TrimSpace(includeClient), "y")
	if form.IncludeClient && !c.ask("client", &form.Client) {
		return nil
	}
	if !(c.ask("new valid from", &form.DateFrom) &&
		c.ask("new valid to", &form.DateTo) &&
		c.ask("percentage", &form.Percentage)) {
		return nil
	}
	updated, err := c.session.ApplyIncrease(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d tariffs updated\n", updated)
	return nil
}

// ask prompts for one field. An empty answer keeps the current value.
func (c *Console) ask(label string, value *string) bool {
	prompt := label + ": "
	if *value != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, *value)
	}
	line, ok := c.prompt(prompt)
	if !ok {
		return false
	}
	if line = strings.TrimSpace(line); line != "" {
		*value = line
	}
	return true
}

func (c *Console) prompt(text string) (string, bool) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) table(headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func (c *Console) printError(err error) {
	var (
		apiErr  *APIError
		formErr *FormError
	)
	switch {
	case errors.As(err, &formErr):
		fmt.Fprintf(c.out, "invalid %s: %s\n", formErr.Field, formErr.Message)
	case errors.As(err, &apiErr):
		fmt.Fprintf(c.out, "server refused (%d): %s\n", apiErr.Status, apiErr.Message)
		for field, msg := range apiErr.Details {
			fmt.Fprintf(c.out, "  %s: %v\n", field, msg)
		}
	default:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return money(*v)
}

func optDate(v *dbtypes.Date) string {
	if v == nil {
		return "-"
	}
	return v.String()
}
