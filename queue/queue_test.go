package queue

import (
	"testing"
)

func TestPushLen(t *testing.T) {
	testcases := []struct {
		inp []int
		exp []int
	}{
		{[]int{}, []int{}},
		{[]int{1}, []int{1}},
		{[]int{1, 2}, []int{1, 2}},
		{[]int{1, 2, 3}, []int{1, 2, 3}},
	}

	for i, tc := range testcases {
		q := New[int]()

		for _, v := range tc.inp {
			q.Push(v)
		}

		if q.Len() != len(tc.exp) {
			t.Errorf("Test %d: Expected length of %d. Got %d.", i, len(tc.exp), q.Len())
		}

		values := q.Values()

		if len(values) != len(tc.exp) {
			t.Errorf("Test %d: Expected length of %d. Got %d.", i, len(tc.exp), len(values))
		}

		for j, v := range values {
			if tc.exp[j] != v {
				t.Errorf("Test %d: Expected %v. Got %v.", i, tc.exp, values)
			}
		}
	}
}

func TestPop(t *testing.T) {
	testcases := []struct {
		inp []int
		exp []int
		val int
	}{
		{[]int{}, []int{}, 0},
		{[]int{1}, []int{}, 1},
		{[]int{2, 2}, []int{2}, 2},
		{[]int{1, 2, 3}, []int{2, 3}, 1},
	}

	for i, tc := range testcases {
		q := New[int]()

		for _, v := range tc.inp {
			q.Push(v)
		}

		val := q.Pop()
		if val != tc.val {
			t.Errorf("Test %d: Expected popped value %v. Got %v.", i, tc.val, val)
		}

		values := q.Values()
		if len(values) != len(tc.exp) {
			t.Errorf("Test %d: Expected length of %d. Got %d.", i, len(tc.exp), len(values))
		}

		for j, v := range values {
			if tc.exp[j] != v {
				t.Errorf("Test %d: Expected %v. Got %v.", i, tc.exp, values)
			}
		}
	}
}

func TestFIFO(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")
	q.Push("c")

	for _, exp := range []string{"a", "b", "c"} {
		if got := q.Pop(); got != exp {
			t.Errorf("Expected %q. Got %q.", exp, got)
		}
	}

	if !q.Empty() {
		t.Errorf("Expected empty queue after popping all values.")
	}
}
