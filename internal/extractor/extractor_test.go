package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const designVHDL = `library ieee;
use ieee.std_logic_1164.all;
use work.my_pkg.all;

package my_pkg is
  type state_t is (IDLE, RUN, STOP, '0');
  type rec_t is record
    valid : std_logic;
    data, mask : std_logic_vector(7 downto 0);
  end record;
  type mem_t is array (0 to 3) of std_logic_vector(7 downto 0);
  type ram_t is array (natural range <>) of word_t;
  type counter_t is range 0 to 15;
  type prob_t is range 0.0 to 1.0;
  type distance is range 0 to 1000000
    units
      um;
      mm = 1000 um;
      m = 1000 mm;
    end units;
  subtype small_int is integer range 0 to 7;
  subtype byte is std_logic_vector(7 downto 0);
  constant WIDTH : integer := 8;
  constant MODE  : string := "fast; really";
  shared variable shared_var : integer;
  function add(a : integer; b : integer) return integer;
  component child
    port(
      cclk : in std_logic;
      dout : out std_logic_vector(7 downto 0)
    );
  end component;
end package;

package body my_pkg is
  function add(a : integer; b : integer) return integer is
    variable tmp : integer := 0;
  begin
    if a > b then
      tmp := a;
    else
      for i in 0 to 3 loop
        tmp := tmp + b;
      end loop;
    end if;
    return tmp;
  end function;
  constant SEED : integer := 42;
end package body;

entity top is
  generic (
    G_WIDTH : natural := 8;
    G_NAME  : string := "top"
  );
  port(
    clk   : in std_logic;
    rst_n : std_logic;
    a, b  : in std_logic_vector(7 downto 0);
    y     : out std_logic_vector(7 downto 0) := (others => '0')
  );
end entity;

architecture rtl of top is
  constant ARCH_CONST : integer := 3;
  signal s1, s2 : std_logic_vector(7 downto 0);
begin
  p_reg : process (clk, rst_n) is
    variable cnt : integer;
  begin
    if rst_n = '0' then
      s1 <= (others => '0');
    elsif rising_edge(clk) then
      case s2 is
        when x"00" => s1 <= a;
        when others => s1 <= b;
      end case;
    end if;
  end process;

  u_child : entity work.child(rtl)
    port map (cclk => clk, dout => s2);

  u_comp : child port map (cclk => clk, dout => open);

  gen : for i in 0 to 1 generate
    u_gen : configuration work.child_cfg port map (cclk => clk);
  end generate;

  process
  begin
    wait until clk = '1';
  end process;

  y <= s2 when a = b else s1; -- end architecture; in a comment
end architecture;

configuration cfg_top of top is
  for rtl
    for u_comp : child
      use entity work.child(rtl);
    end for;
  end for;
end cfg_top;

context project_ctx is
  library ieee;
  use ieee.std_logic_1164.all, ieee.numeric_std.all;
end context;
`

func TestExtractorUnits(t *testing.T) {
	facts := parseVHDL(t, designVHDL)

	if len(facts.Entities) != 1 || facts.Entities[0].Name != "top" {
		t.Fatalf("expected entity top, got %+v", facts.Entities)
	}
	if len(facts.Architectures) != 1 {
		t.Fatalf("expected one architecture, got %d", len(facts.Architectures))
	}
	if arch := facts.Architectures[0]; arch.Name != "rtl" || arch.EntityName != "top" {
		t.Fatalf("expected architecture rtl of top, got %s of %s", arch.Name, arch.EntityName)
	}
	if len(facts.Packages) != 1 || facts.Packages[0].Name != "my_pkg" {
		t.Fatalf("expected package my_pkg, got %+v", facts.Packages)
	}
	if len(facts.PackageBodies) != 1 || facts.PackageBodies[0].Name != "my_pkg" {
		t.Fatalf("expected package body my_pkg, got %+v", facts.PackageBodies)
	}
	if len(facts.Configurations) != 1 || facts.Configurations[0].Name != "cfg_top" || facts.Configurations[0].EntityName != "top" {
		t.Fatalf("expected configuration cfg_top of top, got %+v", facts.Configurations)
	}
	if len(facts.Contexts) != 1 || facts.Contexts[0].Name != "project_ctx" {
		t.Fatalf("expected context project_ctx, got %+v", facts.Contexts)
	}
	if got := len(facts.Contexts[0].Clauses); got != 3 {
		t.Fatalf("expected 3 context clauses, got %d", got)
	}
	if facts.Entities[0].Line != 51 {
		t.Fatalf("expected entity on line 51, got %d", facts.Entities[0].Line)
	}
}

func TestExtractorPackageDeclarations(t *testing.T) {
	facts := parseVHDL(t, designVHDL)
	decls := facts.Packages[0].Declarations

	names := declNames(decls)
	want := []string{"state_t", "rec_t", "mem_t", "ram_t", "counter_t", "prob_t", "distance",
		"small_int", "byte", "WIDTH", "MODE", "shared_var"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected declarations:\n got %v\nwant %v", names, want)
	}

	state := mustFindDecl(t, decls, "state_t")
	if state.Type.Class != ClassEnum || strings.Join(state.Type.Literals, ",") != "IDLE,RUN,STOP,'0'" {
		t.Fatalf("unexpected enum %+v", state.Type)
	}

	rec := mustFindDecl(t, decls, "rec_t")
	if rec.Type.Class != ClassRecord || len(rec.Type.Fields) != 3 {
		t.Fatalf("expected record with 3 fields, got %+v", rec.Type)
	}
	if f := rec.Type.Fields[2]; f.Name != "mask" || f.Type.TypeMark != "std_logic_vector" || len(f.Type.Index) != 1 {
		t.Fatalf("unexpected field %+v", f)
	}

	mem := mustFindDecl(t, decls, "mem_t")
	if mem.Type.Class != ClassArray || len(mem.Type.Indexes) != 1 || mem.Type.Indexes[0].Range == nil {
		t.Fatalf("unexpected array %+v", mem.Type)
	}
	if mem.Type.Element == nil || mem.Type.Element.TypeMark != "std_logic_vector" {
		t.Fatalf("unexpected element %+v", mem.Type.Element)
	}
	ram := mustFindDecl(t, decls, "ram_t")
	if idx := ram.Type.Indexes[0]; !idx.Unbounded || idx.TypeMark != "natural" {
		t.Fatalf("expected unbounded natural index, got %+v", idx)
	}

	counter := mustFindDecl(t, decls, "counter_t")
	if counter.Type.Class != ClassInteger || counter.Type.Range.Left != "0" || counter.Type.Range.Right != "15" {
		t.Fatalf("unexpected integer type %+v", counter.Type)
	}
	prob := mustFindDecl(t, decls, "prob_t")
	if prob.Type.Class != ClassReal {
		t.Fatalf("expected real type, got %s", prob.Type.Class)
	}
	dist := mustFindDecl(t, decls, "distance")
	if dist.Type.Class != ClassPhysical || dist.Type.PrimaryUnit != "um" || len(dist.Type.Units) != 2 {
		t.Fatalf("unexpected physical type %+v", dist.Type)
	}
	if u := dist.Type.Units[1]; u.Name != "m" || u.Value != "1000" || u.Unit != "mm" {
		t.Fatalf("unexpected unit %+v", u)
	}

	small := mustFindDecl(t, decls, "small_int")
	if small.Kind != DeclSubtype || small.Indication.TypeMark != "integer" || small.Indication.Range == nil {
		t.Fatalf("unexpected subtype %+v", small)
	}
	if r := small.Indication.Range; r.Left != "0" || r.Right != "7" || r.Direction != "to" {
		t.Fatalf("unexpected subtype range %+v", r)
	}

	mode := mustFindDecl(t, decls, "MODE")
	if mode.Kind != DeclConstant || mode.Default != `"fast; really"` {
		t.Fatalf("unexpected constant %+v", mode)
	}
	if v := mustFindDecl(t, decls, "shared_var"); v.Kind != DeclVariable || !v.Shared {
		t.Fatalf("expected shared variable, got %+v", v)
	}

	body := facts.PackageBodies[0]
	if len(body.Declarations) != 1 || body.Declarations[0].Name != "SEED" {
		t.Fatalf("expected only SEED in package body, got %v", declNames(body.Declarations))
	}
}

func TestExtractorInterface(t *testing.T) {
	facts := parseVHDL(t, designVHDL)
	top := facts.Entities[0]

	if len(top.Generics) != 2 {
		t.Fatalf("expected 2 generics, got %+v", top.Generics)
	}
	if g := top.Generics[0]; g.Name != "G_WIDTH" || g.Type.TypeMark != "natural" || g.Default != "8" {
		t.Fatalf("unexpected generic %+v", g)
	}

	wantPorts := []struct{ name, dir, typ string }{
		{"clk", "in", "std_logic"},
		{"rst_n", "in", "std_logic"},
		{"a", "in", "std_logic_vector(7 downto 0)"},
		{"b", "in", "std_logic_vector(7 downto 0)"},
		{"y", "out", "std_logic_vector(7 downto 0)"},
	}
	if len(top.Ports) != len(wantPorts) {
		t.Fatalf("expected %d ports, got %+v", len(wantPorts), top.Ports)
	}
	for i, want := range wantPorts {
		got := top.Ports[i]
		if got.Name != want.name || got.Direction != want.dir || got.Type.Text != want.typ {
			t.Fatalf("port %d: expected %v, got %+v", i, want, got)
		}
	}
	if top.Ports[4].Default != "(others => '0')" {
		t.Fatalf("unexpected default %q", top.Ports[4].Default)
	}
}

func TestExtractorStatements(t *testing.T) {
	facts := parseVHDL(t, designVHDL)
	arch := facts.Architectures[0]

	if names := declNames(arch.Declarations); strings.Join(names, ",") != "ARCH_CONST,s1,s2" {
		t.Fatalf("unexpected architecture declarations %v", names)
	}

	want := []Statement{
		{Kind: StmtProcess, Label: "p_reg", Sensitivity: []string{"clk", "rst_n"}},
		{Kind: StmtEntity, Label: "u_child", Target: "work.child"},
		{Kind: StmtComponent, Label: "u_comp", Target: "child"},
		{Kind: StmtConfiguration, Label: "u_gen", Target: "work.child_cfg"},
		{Kind: StmtProcess},
	}
	if len(arch.Statements) != len(want) {
		t.Fatalf("expected %d statements, got %+v", len(want), arch.Statements)
	}
	for i, w := range want {
		got := arch.Statements[i]
		if got.Kind != w.Kind || got.Label != w.Label || got.Target != w.Target ||
			strings.Join(got.Sensitivity, ",") != strings.Join(w.Sensitivity, ",") {
			t.Fatalf("statement %d: expected %+v, got %+v", i, w, got)
		}
	}

	if !hasDependencyKind(facts.Dependencies, "library", "ieee") {
		t.Fatalf("expected library dependency ieee")
	}
	if !hasDependencyKind(facts.Dependencies, "use", "ieee.std_logic_1164") {
		t.Fatalf("expected use dependency ieee.std_logic_1164")
	}
	if !hasDependencyKind(facts.Dependencies, "instantiation", "work.child") {
		t.Fatalf("expected instantiation dependency work.child")
	}
	if !hasDependencyKind(facts.Dependencies, "use", "ieee.numeric_std") {
		t.Fatalf("expected context clause ieee.numeric_std in dependencies")
	}
}

func TestExtractorItemLines(t *testing.T) {
	src := `library ieee;
entity e is
  generic (
    W : natural := 8;
    D : natural := 2);
  port (
    a : in bit;
    b : out bit);
end entity;
package p is
  constant C : integer := 1;
  type r_t is record
    x : bit;
  end record;
end package;
`
	facts := parseVHDL(t, src)
	e := facts.Entities[0]
	if e.Line != 2 {
		t.Fatalf("expected entity on line 2, got %d", e.Line)
	}
	if len(e.Generics) != 2 || e.Generics[0].Line != 4 || e.Generics[1].Line != 5 {
		t.Fatalf("expected generics on lines 4 and 5, got %+v", e.Generics)
	}
	if len(e.Ports) != 2 || e.Ports[0].Line != 7 || e.Ports[1].Line != 8 {
		t.Fatalf("expected ports on lines 7 and 8, got %+v", e.Ports)
	}

	decls := facts.Packages[0].Declarations
	if len(decls) != 2 || decls[0].Name != "C" || decls[0].Line != 11 {
		t.Fatalf("expected constant C on line 11, got %+v", decls)
	}
	rec := decls[1]
	if rec.Line != 12 || len(rec.Type.Fields) != 1 || rec.Type.Fields[0].Line != 13 {
		t.Fatalf("expected record on line 12 with element on line 13, got %+v", rec)
	}
}

func TestExtractorClausesBelongToNextUnit(t *testing.T) {
	src := `library ieee;
use ieee.std_logic_1164.all;
entity a is end entity;
use work.pkg.all;
architecture rtl of a is
  use work.other.all;
begin
end architecture;
package p is end package;
`
	facts := parseVHDL(t, src)
	if got := targets(facts.Entities[0].Clauses); got != "ieee,ieee.std_logic_1164" {
		t.Fatalf("unexpected entity clauses %s", got)
	}
	if got := targets(facts.Architectures[0].Clauses); got != "work.pkg,work.other" {
		t.Fatalf("unexpected architecture clauses %s", got)
	}
	if len(facts.Packages[0].Clauses) != 0 {
		t.Fatalf("expected no clauses on p, got %+v", facts.Packages[0].Clauses)
	}
	if len(facts.Dependencies) != 4 {
		t.Fatalf("expected all 4 clauses in file dependencies, got %+v", facts.Dependencies)
	}
}

func targets(deps []Dependency) string {
	var out []string
	for _, d := range deps {
		out = append(out, d.Target)
	}
	return strings.Join(out, ",")
}

func TestSplitStatementsLineMarks(t *testing.T) {
	stmts := splitStatements([]byte("signal s :\n\n  bit -- note\n  := '0';"), 5)
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %+v", stmts)
	}
	st := stmts[0]
	if st.text != "signal s : bit := '0'" {
		t.Fatalf("unexpected text %q", st.text)
	}
	for _, tc := range []struct {
		word string
		line int
	}{{"signal", 5}, {"bit", 7}, {":=", 8}} {
		if got := st.lineAt(strings.Index(st.text, tc.word)); got != tc.line {
			t.Fatalf("%s: expected line %d, got %d", tc.word, tc.line, got)
		}
	}
}

func TestExtractorUnterminatedUnit(t *testing.T) {
	facts := parseVHDL(t, "entity half is\n  port (a : in bit);\n")
	if len(facts.Entities) != 1 || len(facts.Entities[0].Ports) != 1 {
		t.Fatalf("expected unterminated entity to be kept, got %+v", facts.Entities)
	}
}

func TestExtractorPackageInstanceAndProtected(t *testing.T) {
	src := `package int_fifo is new work.generic_fifo generic map (T => integer);

package shared_pkg is
  type counter_t is protected
    procedure inc;
    impure function get return integer;
  end protected;
  constant AFTER_PROTECTED : integer := 1;
end package;

package body shared_pkg is
  type counter_t is protected body
    variable count : integer := 0;
    procedure inc is
    begin
      count := count + 1;
    end procedure;
    impure function get return integer is
    begin
      return count;
    end function;
  end protected body;
  constant AFTER_BODY : integer := 2;
end package body;
`
	facts := parseVHDL(t, src)
	if len(facts.Packages) != 2 || !facts.Packages[0].Instance {
		t.Fatalf("expected package instance and package, got %+v", facts.Packages)
	}
	if names := declNames(facts.Packages[1].Declarations); strings.Join(names, ",") != "counter_t,AFTER_PROTECTED" {
		t.Fatalf("unexpected package declarations %v", names)
	}
	if names := declNames(facts.PackageBodies[0].Declarations); strings.Join(names, ",") != "AFTER_BODY" {
		t.Fatalf("unexpected package body declarations %v", names)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := New().Extract(filepath.Join(t.TempDir(), "missing.vhd")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIsRealLiteral(t *testing.T) {
	for _, s := range []string{"1.0", "-2.5E-3", "1_000.5"} {
		if !IsRealLiteral(s) {
			t.Fatalf("expected %q to be real", s)
		}
	}
	for _, s := range []string{"1", "16#FF#", "WIDTH", "1.0 ns"} {
		if IsRealLiteral(s) {
			t.Fatalf("did not expect %q to be real", s)
		}
	}
}

func parseVHDL(t *testing.T, src string) FileFacts {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.vhd")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write vhdl: %v", err)
	}

	ext := New()
	facts, err := ext.Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return facts
}

func declNames(decls []Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}

func mustFindDecl(t *testing.T, decls []Declaration, name string) Declaration {
	t.Helper()
	for _, d := range decls {
		if strings.EqualFold(d.Name, name) {
			return d
		}
	}
	t.Fatalf("declaration %s not found in %v", name, declNames(decls))
	return Declaration{}
}

func hasDependencyKind(deps []Dependency, kind, target string) bool {
	for _, d := range deps {
		if d.Kind == kind && strings.EqualFold(d.Target, target) {
			return true
		}
	}
	return false
}
