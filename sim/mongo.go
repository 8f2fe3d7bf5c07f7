package sim

import (
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// Optional MongoDB persistence of simulation results. Stores can be large,
// so inserts go through a small worker pool.

var mgosession *mgo.Session

const db = "vsim"

var signalcoll string

const MaxMgoThreads = 8

var (
	wg      sync.WaitGroup
	jobs    chan bson.M
	errOnce sync.Once
	insErr  error
)

func worker() {
	s := mgosession.Copy()

	for doc := range jobs {
		c := s.DB(db).C(signalcoll)
		if err := c.Insert(doc); err != nil {
			errOnce.Do(func() { insErr = err })
		}
	}
	wg.Done()
}

func InitMgo(s *mgo.Session, cname string, drop bool) {
	mgosession = s.Copy()
	signalcoll = cname + "_signals"

	if drop {
		// A missing collection is fine here.
		mgosession.DB(db).C(signalcoll).DropCollection()
	}

	jobs = make(chan bson.M, 100)
	for i := 0; i < MaxMgoThreads; i++ {
		wg.Add(1)
		go worker()
	}
}

// DoneMgo signals that no more documents will be queued.
func DoneMgo() {
	close(jobs)
}

// WaitMgo blocks until all queued inserts have landed and reports the first
// insert failure, if any.
func WaitMgo() error {
	wg.Wait()
	return errors.Wrap(insErr, "save signals")
}

// Save queues every signal of the store for insertion under the given run
// name. InitMgo must have been called first.
func (s Store) Save(run string) error {
	if jobs == nil {
		return errors.New("signal persistence not initialized")
	}
	for _, key := range s.Keys() {
		jobs <- bson.M{
			"run":    run,
			"signal": key,
			"value":  s.Bit(key),
		}
	}
	return nil
}
