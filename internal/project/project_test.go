package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(name string) artifact.Key {
	return artifact.Key{Namespace: "com.example", Name: name}
}

type dep struct{ name, version string }

func pomXML(name string, modules []string, parent bool, deps ...dep) string {
	s := "<project>\n"
	if parent {
		s += "  <parent>\n    <groupId>com.example</groupId>\n    <artifactId>root</artifactId>\n    <version>1.0.0</version>\n  </parent>\n"
	} else {
		s += "  <groupId>com.example</groupId>\n"
	}
	s += "  <artifactId>" + name + "</artifactId>\n  <version>1.0.0</version>\n"
	if len(modules) > 0 {
		s += "  <modules>\n"
		for _, m := range modules {
			s += "    <module>" + m + "</module>\n"
		}
		s += "  </modules>\n"
	}
	if len(deps) > 0 {
		s += "  <dependencies>\n"
		for _, d := range deps {
			s += "    <dependency><groupId>com.example</groupId><artifactId>" + d.name + "</artifactId><version>" + d.version + "</version></dependency>\n"
		}
		s += "  </dependencies>\n"
	}
	return s + "</project>\n"
}

func writePom(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DescriptorName), []byte(content), 0o644))
}

// root aggregates a and b; a aggregates c; c depends on b.
func writeSampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePom(t, root, pomXML("root", []string{"a", "b"}, false))
	writePom(t, filepath.Join(root, "a"), pomXML("a", []string{"c"}, true))
	writePom(t, filepath.Join(root, "b"), pomXML("b", nil, true))
	writePom(t, filepath.Join(root, "a", "c"), pomXML("c", nil, true, dep{"b", "1.0.0"}, dep{"external", "2.0.0"}))
	return root
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := writeSampleProject(t)
	r, err := Load(root)
	require.NoError(t, err)

	var declared []artifact.Key
	for _, u := range r.Units() {
		declared = append(declared, u.Key)
	}
	assert.Equal(t, []artifact.Key{key("root"), key("a"), key("c"), key("b")}, declared)

	assert.Equal(t, []artifact.Key{key("root"), key("a"), key("b"), key("c")}, r.Sorted())
	assert.Equal(t, key("root"), r.Current())
	assert.Equal(t, key("root"), r.Root().Key)
	assert.Equal(t, []artifact.Key{key("a"), key("b")}, r.Children(key("root")))
	assert.Equal(t, []artifact.Key{key("c")}, r.Children(key("a")))
	assert.Empty(t, r.Children(key("b")))

	assert.Equal(t, []artifact.Key{key("root"), key("b")}, r.Dependencies(key("c")))
	assert.Equal(t, []artifact.Key{key("a"), key("b"), key("c")}, r.Dependents(key("root")))
	assert.Equal(t, []artifact.Key{key("c")}, r.Dependents(key("b")))

	c, ok := r.Unit(key("c"))
	require.True(t, ok)
	assert.Equal(t, key("a"), c.Aggregator)
	assert.Equal(t, filepath.Join(c.Dir, DescriptorName), c.DescriptorPath)
	assert.False(t, r.Contains(key("external")))
}

func TestLoad_FromDescriptorFile(t *testing.T) {
	t.Parallel()

	root := writeSampleProject(t)
	r, err := Load(filepath.Join(root, DescriptorName))
	require.NoError(t, err)
	assert.Len(t, r.Units(), 4)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing module", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writePom(t, root, pomXML("root", []string{"gone"}, false))

		_, err := Load(root)
		var missing *MissingModuleError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "gone", missing.Module)
	})

	t.Run("no descriptor", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("no group", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writePom(t, root, "<project><artifactId>x</artifactId></project>")
		_, err := Load(root)
		assert.ErrorContains(t, err, "groupId")
	})

	t.Run("duplicate artifact", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writePom(t, root, pomXML("root", []string{"a", "b"}, false))
		writePom(t, filepath.Join(root, "a"), pomXML("same", nil, true))
		writePom(t, filepath.Join(root, "b"), pomXML("same", nil, true))
		_, err := Load(root)
		var dup *DuplicateUnitError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "com.example:same", dup.Key)
	})
}

func TestLoad_ManagedEntriesAreNotEdges(t *testing.T) {
	t.Parallel()

	// The root pins a in dependencyManagement and pluginManagement while a
	// names the root as its parent.
	root := t.TempDir()
	writePom(t, root, `<project>
  <groupId>com.example</groupId>
  <artifactId>root</artifactId>
  <version>1.0.0</version>
  <modules>
    <module>a</module>
  </modules>
  <dependencyManagement>
    <dependencies>
      <dependency><groupId>com.example</groupId><artifactId>a</artifactId><version>1.0.0</version></dependency>
    </dependencies>
  </dependencyManagement>
  <build>
    <pluginManagement>
      <plugins>
        <plugin><groupId>com.example</groupId><artifactId>a</artifactId><version>1.0.0</version></plugin>
      </plugins>
    </pluginManagement>
  </build>
</project>
`)
	writePom(t, filepath.Join(root, "a"), pomXML("a", nil, true))

	r, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []artifact.Key{key("root"), key("a")}, r.Sorted())
	assert.Empty(t, r.Dependencies(key("root")))
	assert.Equal(t, []artifact.Key{key("root")}, r.Dependencies(key("a")))
}

func TestNew_PluginIsEdge(t *testing.T) {
	t.Parallel()

	doc, err := descriptor.Parse([]byte(`<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0.0</version>
  <build>
    <plugins>
      <plugin><groupId>com.example</groupId><artifactId>tool</artifactId><version>1.0.0</version></plugin>
    </plugins>
  </build>
</project>
`))
	require.NoError(t, err)
	app := &Unit{Key: key("app"), Doc: doc, DescriptorPath: "app/pom.xml"}

	r, err := New(key("app"), []*Unit{app, unit(t, "tool")})
	require.NoError(t, err)
	assert.Equal(t, []artifact.Key{key("tool"), key("app")}, r.Sorted())
}

func unit(t *testing.T, name string, deps ...dep) *Unit {
	t.Helper()
	doc, err := descriptor.Parse([]byte(pomXML(name, nil, false, deps...)))
	require.NoError(t, err)
	return &Unit{Key: key(name), Doc: doc, DescriptorPath: name + "/pom.xml"}
}

func TestNew_CycleDetection(t *testing.T) {
	t.Parallel()

	units := []*Unit{
		unit(t, "x", dep{"y", "1.0.0"}),
		unit(t, "y", dep{"z", "1.0.0"}),
		unit(t, "z", dep{"x", "1.0.0"}),
	}
	_, err := New(key("x"), units)

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"com.example:x", "com.example:y", "com.example:z", "com.example:x"}, cycle.Path)
	assert.Contains(t, err.Error(), "com.example:x -> com.example:y")
}

func TestNew_OrderIsDeterministic(t *testing.T) {
	t.Parallel()

	// d depends on everything; b and c are independent and keep declaration order.
	units := []*Unit{
		unit(t, "d", dep{"c", "1.0.0"}, dep{"b", "1.0.0"}, dep{"a", "1.0.0"}),
		unit(t, "c"),
		unit(t, "b", dep{"a", "1.0.0"}),
		unit(t, "a"),
	}
	for range 5 {
		r, err := New(key("d"), units)
		require.NoError(t, err)
		assert.Equal(t, []artifact.Key{key("c"), key("a"), key("b"), key("d")}, r.Sorted())
	}
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	r, err := New(artifact.Key{}, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Sorted())
	assert.Nil(t, r.Root())
}

func TestNew_UnknownRoot(t *testing.T) {
	t.Parallel()

	_, err := New(key("nope"), []*Unit{unit(t, "a")})
	assert.Error(t, err)
}
