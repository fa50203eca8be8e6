// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package vm

// Scheduler runs a cooperative, non-preemptive round-robin ring of
// tasks. Tasks are kept in an indexed slot table (a map plus an order
// slice) rather than a raw linked list, so switching and removal never
// depend on comparing *Task pointers.
type Scheduler struct {
	tasks   map[taskID]*Task
	order   []taskID
	current int // index into order, or -1 when no task has been selected yet
	nextID  taskID
	blocked bool
}

func newScheduler() *Scheduler {
	return &Scheduler{
		tasks:   make(map[taskID]*Task),
		current: -1,
	}
}

// Create allocates a new task and appends it to the ring.
func (s *Scheduler) Create(alloc Allocator, pc uint32, seed [NumRegisters]int32, meta ImageMeta) (*Task, error) {
	id := s.nextID
	s.nextID++

	t, err := newTask(id, alloc, pc, seed, meta)
	if err != nil {
		return nil, err
	}

	s.tasks[id] = t
	s.order = append(s.order, id)
	return t, nil
}

// Remove takes a task out of the ring. The caller must switch away from
// t first if it is the current task.
func (s *Scheduler) Remove(t *Task) error {
	if t == nil {
		return ErrNullArg
	}
	idx := -1
	for i, id := range s.order {
		if id == t.id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrTaskNotFound
	}

	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.tasks, t.id)
	t.deinit()

	if s.current > idx {
		s.current--
	} else if s.current >= len(s.order) {
		s.current = len(s.order) - 1
	}
	return nil
}

// Switch advances to the next task in ring order, wrapping to the head.
// The very first Switch call after tasks exist selects the head.
func (s *Scheduler) Switch() error {
	if s.blocked {
		return ErrTaskSwitchBlocked
	}
	if len(s.order) == 0 {
		return ErrTaskNotFound
	}
	if s.current == -1 {
		s.current = 0
		return nil
	}
	s.current = (s.current + 1) % len(s.order)
	return nil
}

// Block toggles whether Switch is permitted to run.
func (s *Scheduler) Block(block bool) {
	s.blocked = block
}

// Current returns the task the scheduler is presently pointing at.
func (s *Scheduler) Current() (*Task, error) {
	if s.current == -1 || s.current >= len(s.order) {
		return nil, ErrTaskNotFound
	}
	return s.tasks[s.order[s.current]], nil
}
