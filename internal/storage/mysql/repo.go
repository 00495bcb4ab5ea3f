package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	mysqldrv "github.com/go-sql-driver/mysql"
	"golang.org/x/sync/errgroup"

	"guest_manual/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects to MySQL and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates any missing tables. Existing tables are left untouched.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// textMax is the byte capacity of a TEXT column.
const textMax = 65535

// clip keeps values inside their column widths so strict mode never rejects them.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// ---- properties ----

type scanner interface{ Scan(dest ...any) error }

func scanProperty(s scanner) (domain.Property, error) {
	var p domain.Property
	err := s.Scan(
		&p.ID, &p.Slug, &p.Name, &p.AddressDisplay, &p.MapURL, &p.CheckinTime, &p.CheckoutTime,
		&p.WifiSSID, &p.WifiPassword, &p.Parking, &p.QuietHours, &p.Notes, &p.HeroURL,
		&p.GalleryURLs, &p.InstagramURL, &p.FacebookURL, &p.TiktokURL, &p.WhatsappURL,
		&p.PhoneNumber, &p.EmailAddress,
	)
	return p, err
}

func propertyArgs(p *domain.Property) []any {
	return []any{
		clip(p.Slug, 120), clip(p.Name, 200), clip(p.AddressDisplay, 300), clip(p.MapURL, 500),
		clip(p.CheckinTime, 20), clip(p.CheckoutTime, 20),
		clip(p.WifiSSID, 120), clip(p.WifiPassword, 120), clip(p.Parking, textMax),
		clip(p.QuietHours, 50), clip(p.Notes, textMax), clip(p.HeroURL, 800),
		clip(p.GalleryURLs, textMax), clip(p.InstagramURL, 300), clip(p.FacebookURL, 300),
		clip(p.TiktokURL, 300), clip(p.WhatsappURL, 300),
		clip(p.PhoneNumber, 60), clip(p.EmailAddress, 120),
	}
}

func (r *Repo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listPropertiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CountProperties(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n)
	return n, err
}

func (r *Repo) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) GetPropertyBySlug(ctx context.Context, slug string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertyBySlugSQL, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

// SaveProperty inserts when p.ID is zero and overwrites every field otherwise.
func (r *Repo) SaveProperty(ctx context.Context, p *domain.Property) error {
	if p.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertPropertySQL, propertyArgs(p)...)
		if err != nil {
			if isDuplicate(err) {
				return domain.ErrSlugTaken
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	}

	args := append(propertyArgs(p), p.ID)
	res, err := r.db.ExecContext(ctx, updatePropertySQL, args...)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	// MySQL reports 0 affected rows for an unchanged row, so confirm existence separately.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetProperty(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProperty removes the property and every record that references it in one transaction.
func (r *Repo) DeleteProperty(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range domain.Kinds {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+childTables[k]+" WHERE prop_id = ?", id); err != nil {
			return fmt.Errorf("delete %s: %w", childTables[k], err)
		}
	}
	for _, table := range []string{"messages", "page_views"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE property_id = ?", id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// ---- child records ----

// GetManual loads every child list of p concurrently.
func (r *Repo) GetManual(ctx context.Context, p domain.Property) (domain.Manual, error) {
	m := domain.Manual{Property: p}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.list(gctx, listContactsSQL, p.ID, func(s scanner) error {
			var c domain.Contact
			if err := s.Scan(&c.ID, &c.PropID, &c.Role, &c.Name, &c.Phone, &c.WhatsApp); err != nil {
				return err
			}
			m.Contacts = append(m.Contacts, c)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listRulesSQL, p.ID, func(s scanner) error {
			var v domain.Rule
			if err := s.Scan(&v.ID, &v.PropID, &v.Title, &v.Description, &v.Penalty, &v.Rationale); err != nil {
				return err
			}
			m.Rules = append(m.Rules, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listHowTosSQL, p.ID, func(s scanner) error {
			v, err := scanHowTo(s)
			if err != nil {
				return err
			}
			m.HowTos = append(m.HowTos, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listIssuesSQL, p.ID, func(s scanner) error {
			var v domain.IssueFlow
			if err := s.Scan(&v.ID, &v.PropID, &v.Category, &v.TryFirst, &v.WhenToContact, &v.InfoNeeded, &v.AutoReply); err != nil {
				return err
			}
			m.Issues = append(m.Issues, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listEmergenciesSQL, p.ID, func(s scanner) error {
			var v domain.Emergency
			if err := s.Scan(&v.ID, &v.PropID, &v.EType, &v.Name, &v.Phone, &v.When, &v.Address, &v.Notes); err != nil {
				return err
			}
			m.Emergencies = append(m.Emergencies, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listLocalsSQL, p.ID, func(s scanner) error {
			var v domain.LocalPlace
			if err := s.Scan(&v.ID, &v.PropID, &v.Category, &v.Name, &v.Blurb, &v.Address, &v.MapLink, &v.Hours, &v.Link, &v.Price); err != nil {
				return err
			}
			m.Locals = append(m.Locals, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listCheckinSQL, p.ID, func(s scanner) error {
			var v domain.CheckinStep
			if err := s.Scan(&v.ID, &v.PropID, &v.Step, &v.Title, &v.Body, &v.Image, &v.Video, &v.Tip); err != nil {
				return err
			}
			m.CheckinSteps = append(m.CheckinSteps, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listCheckoutSQL, p.ID, func(s scanner) error {
			var v domain.CheckoutStep
			if err := s.Scan(&v.ID, &v.PropID, &v.Step, &v.Title, &v.Body, &v.Notes); err != nil {
				return err
			}
			m.CheckoutSteps = append(m.CheckoutSteps, v)
			return nil
		})
	})
	g.Go(func() error {
		return r.list(gctx, listFAQsSQL, p.ID, func(s scanner) error {
			var v domain.FAQ
			if err := s.Scan(&v.ID, &v.PropID, &v.Question, &v.Answer, &v.Related); err != nil {
				return err
			}
			m.FAQs = append(m.FAQs, v)
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return domain.Manual{}, err
	}
	return m, nil
}

// list runs a per-property query and hands each row to fn.
func (r *Repo) list(ctx context.Context, query string, propID int64, fn func(scanner) error) error {
	rows, err := r.db.QueryContext(ctx, query, propID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanHowTo(s scanner) (domain.HowTo, error) {
	var v domain.HowTo
	err := s.Scan(&v.ID, &v.PropID, &v.Area, &v.Appliance, &v.BrandModel, &v.How, &v.ManualURL, &v.Issues)
	return v, err
}

func (r *Repo) GetHowTo(ctx context.Context, id int64) (domain.HowTo, error) {
	h, err := scanHowTo(r.db.QueryRowContext(ctx, getHowToSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HowTo{}, domain.ErrNotFound
	}
	return h, err
}

func insertFor(rec domain.Record) (string, []any, error) {
	switch v := rec.(type) {
	case domain.Contact:
		return insertContactSQL, []any{v.PropID,
			clip(v.Role, 50), clip(v.Name, 120), clip(v.Phone, 60), clip(v.WhatsApp, 60)}, nil
	case domain.Rule:
		return insertRuleSQL, []any{v.PropID,
			clip(v.Title, 200), clip(v.Description, textMax), clip(v.Penalty, 120), clip(v.Rationale, textMax)}, nil
	case domain.HowTo:
		return insertHowToSQL, []any{v.PropID,
			clip(v.Area, 120), clip(v.Appliance, 120), clip(v.BrandModel, 120), clip(v.How, textMax),
			clip(v.ManualURL, 500), clip(v.Issues, textMax)}, nil
	case domain.IssueFlow:
		return insertIssueSQL, []any{v.PropID,
			clip(v.Category, 120), clip(v.TryFirst, textMax), clip(v.WhenToContact, textMax),
			clip(v.InfoNeeded, textMax), clip(v.AutoReply, textMax)}, nil
	case domain.Emergency:
		return insertEmergencySQL, []any{v.PropID,
			clip(v.EType, 50), clip(v.Name, 120), clip(v.Phone, 60), clip(v.When, textMax),
			clip(v.Address, 300), clip(v.Notes, textMax)}, nil
	case domain.LocalPlace:
		return insertLocalSQL, []any{v.PropID,
			clip(v.Category, 50), clip(v.Name, 200), clip(v.Blurb, textMax), clip(v.Address, 300),
			clip(v.MapLink, 500), clip(v.Hours, 120), clip(v.Link, 500), clip(v.Price, 10)}, nil
	case domain.CheckinStep:
		return insertCheckinSQL, []any{v.PropID, v.Step,
			clip(v.Title, 200), clip(v.Body, textMax), clip(v.Image, 200), clip(v.Video, 200), clip(v.Tip, textMax)}, nil
	case domain.CheckoutStep:
		return insertCheckoutSQL, []any{v.PropID, v.Step,
			clip(v.Title, 200), clip(v.Body, textMax), clip(v.Notes, textMax)}, nil
	case domain.FAQ:
		return insertFAQSQL, []any{v.PropID,
			clip(v.Question, 300), clip(v.Answer, textMax), clip(v.Related, 200)}, nil
	}
	return "", nil, domain.ErrUnknownKind
}

func (r *Repo) AddRecord(ctx context.Context, rec domain.Record) (int64, error) {
	query, args, err := insertFor(rec)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", rec.Kind(), err)
	}
	return res.LastInsertId()
}

func (r *Repo) DeleteRecord(ctx context.Context, kind domain.Kind, id int64) (int64, error) {
	table, ok := childTables[kind]
	if !ok {
		return 0, domain.ErrUnknownKind
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var owner int64
	err = tx.QueryRowContext(ctx, "SELECT prop_id FROM "+table+" WHERE id = ? FOR UPDATE", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
		return 0, err
	}
	return owner, tx.Commit()
}

// ---- guest activity ----

func (r *Repo) AddMessage(ctx context.Context, m *domain.Message) error {
	res, err := r.db.ExecContext(ctx, insertMessageSQL,
		m.PropertyID,
		clip(m.Name, 120),
		clip(m.Contact, 120),
		clip(m.Category, 80),
		clip(m.Body, textMax),
		m.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) ListMessages(ctx context.Context, propertyID int64, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, listMessagesSQL, propertyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.PropertyID, &m.Name, &m.Contact, &m.Category, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) AddPageView(ctx context.Context, v domain.PageView) error {
	_, err := r.db.ExecContext(ctx, insertPageViewSQL,
		v.PropertyID,
		clip(v.Section, 40),
		clip(v.UserAgent, 300),
		clip(v.IP, 64),
		v.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) CountViewsSince(ctx context.Context, since time.Time) (map[int64]int, error) {
	rows, err := r.db.QueryContext(ctx, countViewsSinceSQL, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]int{}
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *Repo) SectionViewsSince(ctx context.Context, propertyID int64, since time.Time) ([]domain.SectionCount, error) {
	rows, err := r.db.QueryContext(ctx, sectionViewsSinceSQL, propertyID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SectionCount
	for rows.Next() {
		var sc domain.SectionCount
		if err := rows.Scan(&sc.Section, &sc.Views); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
