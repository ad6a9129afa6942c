package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableProject(t *testing.T) {
	table := &Table{
		Headers: []string{"a", "b", "c"},
		Rows:    [][]string{{"1", "2", "3"}, {"4", "5"}},
	}

	assert.Equal(t, 2, table.ColumnIndex("c"))
	assert.Equal(t, -1, table.ColumnIndex("z"))

	got := table.Project([]string{"c", "a", "z"})
	assert.Equal(t, [][]string{{"3", "1", ""}, {"", "4", ""}}, got)
}

func TestAppState(t *testing.T) {
	s := NewAppState()
	assert.Nil(t, s.GetExtraction("exp1"))

	s.SetExtraction(&Extraction{ExperimentID: "exp1", Participants: 3})
	s.SetExtraction(&Extraction{ExperimentID: "exp2", Participants: 5})
	assert.Equal(t, 3, s.GetExtraction("exp1").Participants)

	id := "exp1"
	s.ClearExtraction(&id)
	assert.Nil(t, s.GetExtraction("exp1"))
	assert.NotNil(t, s.GetExtraction("exp2"))

	s.ClearExtraction(nil)
	assert.Nil(t, s.GetExtraction("exp2"))
}

func TestAppStateConcurrentAccess(t *testing.T) {
	s := NewAppState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetExtraction(&Extraction{ExperimentID: "exp"})
		}()
		go func() {
			defer wg.Done()
			s.GetExtraction("exp")
		}()
	}
	wg.Wait()
	assert.NotNil(t, s.GetExtraction("exp"))
}
