package commands

// Convenience builders for the high-traffic single-entity operations. Each
// produces a complete command with a fresh UUID.

// CloseItem marks an item done (recurring items advance to the next due).
func CloseItem(id string) Command {
	return New(ItemClose, Args{"id": id})
}

// UncompleteItem reopens a completed item.
func UncompleteItem(id string) Command {
	return New(ItemUncomplete, Args{"id": id})
}

// DeleteItem permanently removes an item.
func DeleteItem(id string) Command {
	return New(ItemDelete, Args{"id": id})
}

// MoveItem moves an item to a project, section, or parent. Exactly one
// destination key should be set; the server rejects combinations.
func MoveItem(id string, dest Args) Command {
	args := Args{"id": id}
	for k, v := range dest {
		args[k] = v
	}
	return New(ItemMove, args)
}

func DeleteProject(id string) Command {
	return New(ProjectDelete, Args{"id": id})
}

func ArchiveProject(id string) Command {
	return New(ProjectArchive, Args{"id": id})
}

func UnarchiveProject(id string) Command {
	return New(ProjectUnarchive, Args{"id": id})
}

func DeleteSection(id string) Command {
	return New(SectionDelete, Args{"id": id})
}

func ArchiveSection(id string) Command {
	return New(SectionArchive, Args{"id": id})
}

func UnarchiveSection(id string) Command {
	return New(SectionUnarchive, Args{"id": id})
}

func DeleteLabel(id string) Command {
	return New(LabelDelete, Args{"id": id})
}

func DeleteNote(id string) Command {
	return New(NoteDelete, Args{"id": id})
}

func DeleteProjectNote(id string) Command {
	return New(ProjectNoteDelete, Args{"id": id})
}

func DeleteReminder(id string) Command {
	return New(ReminderDelete, Args{"id": id})
}

func DeleteFilter(id string) Command {
	return New(FilterDelete, Args{"id": id})
}
