package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/ports"
)

// Key prefixes. Every piece of contract state lives in one keyspace so a
// single badger transaction covers store, index and ledger writes.
var (
	puzzlePrefix   = []byte("p/")
	unsolvedPrefix = []byte("u/")
	grantPrefix    = []byte("g/")
	balancePrefix  = []byte("b/")
	escrowKey      = []byte("e")
)

func prefixed(prefix, id []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(id))
	k = append(k, prefix...)
	return append(k, id...)
}

type Store struct {
	db *DB
}

func NewStore(db *DB) *Store { return &Store{db: db} }

func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.db.WithTxn(ctx, func(t *badger.Txn) error {
		return fn(txn{t: t})
	})
}

func (s *Store) View(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.db.WithReadTxn(ctx, func(t *badger.Txn) error {
		return fn(txn{t: t})
	})
}

type txn struct {
	t *badger.Txn
}

func (x txn) Puzzles() ports.PuzzleStore   { return puzzleStore{t: x.t} }
func (x txn) Unsolved() ports.UnsolvedIndex { return unsolvedIndex{t: x.t} }
func (x txn) Ledger() ports.Ledger          { return ledger{t: x.t} }

// getJSON reports found=false for a missing key.
func getJSON(t *badger.Txn, key []byte, dst any) (bool, error) {
	item, err := t.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func setJSON(t *badger.Txn, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return t.Set(key, raw)
}

type puzzleStore struct {
	t *badger.Txn
}

func (s puzzleStore) Get(id entity.PublicKey) (entity.Puzzle, bool, error) {
	var p entity.Puzzle
	found, err := getJSON(s.t, prefixed(puzzlePrefix, id), &p)
	if err != nil || !found {
		return entity.Puzzle{}, false, err
	}
	return p, true, nil
}

func (s puzzleStore) Insert(id entity.PublicKey, p entity.Puzzle) (*entity.Puzzle, error) {
	prev, found, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := setJSON(s.t, prefixed(puzzlePrefix, id), p); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &prev, nil
}

type unsolvedIndex struct {
	t *badger.Txn
}

func (u unsolvedIndex) Insert(id entity.PublicKey) error {
	return u.t.Set(prefixed(unsolvedPrefix, id), nil)
}

func (u unsolvedIndex) Remove(id entity.PublicKey) error {
	return u.t.Delete(prefixed(unsolvedPrefix, id))
}

// List returns ids in key order.
func (u unsolvedIndex) List() ([]entity.PublicKey, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = unsolvedPrefix
	it := u.t.NewIterator(opts)
	defer it.Close()

	var ids []entity.PublicKey
	for it.Seek(unsolvedPrefix); it.ValidForPrefix(unsolvedPrefix); it.Next() {
		k := it.Item().KeyCopy(nil)
		ids = append(ids, entity.PublicKey(k[len(unsolvedPrefix):]))
	}
	return ids, nil
}

type ledger struct {
	t *badger.Txn
}

func (l ledger) Grant(g entity.Grant) error {
	if len(g.Key) == 0 {
		return fmt.Errorf("%w: grant without key", entity.ErrBadRequest)
	}
	return setJSON(l.t, prefixed(grantPrefix, g.Key), g)
}

func (l ledger) Revoke(key entity.PublicKey) error {
	return l.t.Delete(prefixed(grantPrefix, key))
}

func (l ledger) Lookup(key entity.PublicKey) (entity.Grant, bool, error) {
	var g entity.Grant
	found, err := getJSON(l.t, prefixed(grantPrefix, key), &g)
	if err != nil || !found {
		return entity.Grant{}, false, err
	}
	return g, true, nil
}

func (l ledger) amount(key []byte) (decimal.Decimal, error) {
	var d decimal.Decimal
	found, err := getJSON(l.t, key, &d)
	if err != nil || !found {
		return decimal.Zero, err
	}
	return d, nil
}

func (l ledger) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative deposit %s", entity.ErrInvalidAmount, amount)
	}
	pool, err := l.amount(escrowKey)
	if err != nil {
		return err
	}
	return setJSON(l.t, escrowKey, pool.Add(amount))
}

func (l ledger) Transfer(to entity.AccountID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative transfer %s", entity.ErrInvalidAmount, amount)
	}
	pool, err := l.amount(escrowKey)
	if err != nil {
		return err
	}
	if pool.LessThan(amount) {
		return fmt.Errorf("%w: pool %s, transfer %s", entity.ErrInsufficientEscrow, pool, amount)
	}
	key := prefixed(balancePrefix, []byte(to))
	bal, err := l.amount(key)
	if err != nil {
		return err
	}
	if err := setJSON(l.t, escrowKey, pool.Sub(amount)); err != nil {
		return err
	}
	return setJSON(l.t, key, bal.Add(amount))
}

func (l ledger) Balance(account entity.AccountID) (decimal.Decimal, error) {
	return l.amount(prefixed(balancePrefix, []byte(account)))
}

func (l ledger) Escrow() (decimal.Decimal, error) {
	return l.amount(escrowKey)
}
