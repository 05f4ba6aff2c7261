package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyShape    = errors.New("shape must declare at least one tier, pool and class")
	ErrKeyOutOfRange = errors.New("class key is outside of the declared address space")
)

type (
	TierID  uint8
	PoolID  uint8
	ClassID uint8
)

// Shape is the declared (tier × pool × class) address space of a cache.
// Every ClassKey is issued by a Shape. Dense indexes are always computed by the Shape
// that owns the storage, so a key of another Shape is either remapped by its triple or rejected.
type Shape struct {
	Tiers   int
	Pools   int
	Classes int
}

func NewShape(tiers, pools, classes int) (Shape, error) {
	s := Shape{Tiers: tiers, Pools: pools, Classes: classes}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

func (s Shape) Validate() error {
	if s.Tiers <= 0 || s.Pools <= 0 || s.Classes <= 0 {
		return fmt.Errorf("%w: tiers=%d pools=%d classes=%d", ErrEmptyShape, s.Tiers, s.Pools, s.Classes)
	}
	const maxID = 1 << 8
	if s.Tiers > maxID || s.Pools > maxID || s.Classes > maxID {
		return fmt.Errorf("%w: tiers=%d pools=%d classes=%d (max %d each)", ErrKeyOutOfRange, s.Tiers, s.Pools, s.Classes, maxID)
	}
	return nil
}

// Size is the number of addressable classes.
func (s Shape) Size() int {
	return s.Tiers * s.Pools * s.Classes
}

// Key issues a ClassKey for the given triple or reports that it does not belong to the shape.
func (s Shape) Key(tier TierID, pool PoolID, class ClassID) (ClassKey, error) {
	if int(tier) >= s.Tiers || int(pool) >= s.Pools || int(class) >= s.Classes {
		return ClassKey{}, fmt.Errorf("%w: (%d, %d, %d) not in %dx%dx%d",
			ErrKeyOutOfRange, tier, pool, class, s.Tiers, s.Pools, s.Classes)
	}
	return ClassKey{tier: tier, pool: pool, class: class}, nil
}

// Contains reports whether the key addresses a class of this shape.
func (s Shape) Contains(k ClassKey) bool {
	return int(k.tier) < s.Tiers && int(k.pool) < s.Pools && int(k.class) < s.Classes
}

// Index is the dense position of the key in this shape: (tier*Pools+pool)*Classes+class.
// A key outside of the shape is a programming error and panics.
func (s Shape) Index(k ClassKey) int {
	if !s.Contains(k) {
		panic(fmt.Errorf("%w: %s not in %dx%dx%d", ErrKeyOutOfRange, k, s.Tiers, s.Pools, s.Classes))
	}
	return (int(k.tier)*s.Pools+int(k.pool))*s.Classes + int(k.class)
}

// MustKey is Key for statically known triples, it panics on a programming error.
func (s Shape) MustKey(tier TierID, pool PoolID, class ClassID) ClassKey {
	k, err := s.Key(tier, pool, class)
	if err != nil {
		panic(err)
	}
	return k
}

// Keys enumerates the whole address space in dense index order.
func (s Shape) Keys() []ClassKey {
	keys := make([]ClassKey, 0, s.Size())
	for t := 0; t < s.Tiers; t++ {
		for p := 0; p < s.Pools; p++ {
			for c := 0; c < s.Classes; c++ {
				keys = append(keys, s.MustKey(TierID(t), PoolID(p), ClassID(c)))
			}
		}
	}
	return keys
}

// ClassKey addresses one allocation class. The zero value is (0, 0, 0) which is valid for any Shape.
type ClassKey struct {
	tier  TierID
	pool  PoolID
	class ClassID
}

func (k ClassKey) Tier() TierID   { return k.tier }
func (k ClassKey) Pool() PoolID   { return k.pool }
func (k ClassKey) Class() ClassID { return k.class }

func (k ClassKey) String() string {
	return fmt.Sprintf("%d:%d:%d", k.tier, k.pool, k.class)
}
