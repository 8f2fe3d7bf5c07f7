package rtl

import (
	"github.com/pkg/errors"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/neil066/VLSI-Verfication-Lab/set"
)

// Optional MongoDB cache of parsed module tables. A design saved under a
// cache name can be reloaded later without reparsing the source.

var mgosession *mgo.Session

const db = "vsim"

var collection string

func InitMgo(s *mgo.Session, cname string, drop bool) error {
	mgosession = s.Copy()
	collection = cname

	c := cache()
	if drop {
		// A missing collection is fine here.
		c.DropCollection()
	}

	err := c.EnsureIndex(mgo.Index{
		Key:    []string{"name"},
		Unique: true,
	})
	return errors.Wrap(err, "ensure index")
}

func cache() *mgo.Collection {
	s := mgosession.Copy()
	return s.DB(db).C(collection)
}

// Save inserts every module of the design into the cache, keeping the
// declaration order.
func (d *Design) Save() error {
	c := cache()
	for pos, name := range d.order {
		doc := bson.M{
			"pos":   pos,
			"name":  name,
			"ports": d.Modules[name].Ports,
			"wires": d.Modules[name].Wires,
			"insts": d.Modules[name].Insts,
		}
		if err := c.Insert(doc); err != nil {
			return errors.Wrapf(err, "save module %q", name)
		}
	}
	return nil
}

// LoadDesign reads a previously saved module table back from the cache.
func LoadDesign() (*Design, error) {
	c := cache()

	var docs []Module
	if err := c.Find(nil).Sort("pos").All(&docs); err != nil {
		return nil, errors.Wrap(err, "load design")
	}
	if len(docs) == 0 {
		return nil, errors.Errorf("cache %q is empty", collection)
	}

	d := NewDesign()
	for i := range docs {
		m := docs[i]
		m.names = set.New()
		for _, p := range m.Ports {
			m.names.Add(p.Name)
		}
		for _, w := range m.Wires {
			m.names.Add(w)
		}
		if err := d.Add(&m); err != nil {
			return nil, err
		}
	}
	return d, nil
}
